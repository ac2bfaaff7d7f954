package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// 密文前缀，无前缀的值视为历史明文
const encryptedPrefix = "enc:"

const hkdfInfo = "aiplugin/provider-api-key"

const devSeed = "aiplugin_dev_provider_secret_change_me"

// ErrSecretNotConfigured release 模式下未配置加密种子
var ErrSecretNotConfigured = errors.New("security.secret 与 APP_SECURITY_SECRET 均未配置")

var (
	secretMu   sync.RWMutex
	secretSeed string
	secretKey  []byte
)

// SetSecret 设置加密种子（启动时由配置注入），空值回退到环境变量
func SetSecret(seed string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secretSeed = strings.TrimSpace(seed)
	secretKey = nil
}

// configuredSeed 返回配置或环境变量中的种子，未配置时为空
func configuredSeed() string {
	if secretSeed != "" {
		return secretSeed
	}
	return strings.TrimSpace(os.Getenv("APP_SECURITY_SECRET"))
}

// Configured 是否配置了加密种子
func Configured() bool {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return configuredSeed() != ""
}

// CheckSecret release 模式必须配置加密种子，其余模式允许回退到开发密钥
func CheckSecret(release bool) error {
	if release && !Configured() {
		return ErrSecretNotConfigured
	}
	return nil
}

func getSecretKey() ([]byte, error) {
	secretMu.RLock()
	key := secretKey
	secretMu.RUnlock()
	if key != nil {
		return key, nil
	}

	secretMu.Lock()
	defer secretMu.Unlock()
	if secretKey != nil {
		return secretKey, nil
	}

	seed := configuredSeed()
	if seed == "" {
		seed = devSeed
	}

	derived := make([]byte, 32)
	reader := hkdf.New(sha256.New, []byte(seed), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("派生密钥失败: %w", err)
	}
	secretKey = derived
	return secretKey, nil
}

func newGCM() (cipher.AEAD, error) {
	key, err := getSecretKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("初始化密钥失败: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("初始化 GCM 失败: %w", err)
	}
	return gcm, nil
}

// EncryptSecret 使用 AES-GCM 加密敏感字符串，返回带前缀的 base64 文本
func EncryptSecret(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", fmt.Errorf("待加密内容不能为空")
	}
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("生成随机数失败: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSecret 解密 EncryptSecret 的输出；无前缀的值原样返回
func DecryptSecret(stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("密文格式无效: %w", err)
	}
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("密文长度无效")
	}
	plain, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("解密失败: %w", err)
	}
	return string(plain), nil
}

// IsEncrypted 是否为密文
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptedPrefix)
}

// MaskSecret 脱敏显示，保留前 3 位与后 4 位
func MaskSecret(plain string) string {
	if plain == "" {
		return ""
	}
	if len(plain) <= 8 {
		return "****"
	}
	return plain[:3] + "****" + plain[len(plain)-4:]
}
