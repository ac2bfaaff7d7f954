// token 为管理接口签发或吊销 JWT，签名密钥与 issuer 取自服务配置
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"aiplugin/internal/auth"
	"aiplugin/internal/config"
	"aiplugin/internal/infra"

	"github.com/joho/godotenv"
)

func main() {
	var (
		env        = flag.String("env", envOr("APP_ENV", "dev"), "配置环境")
		configPath = flag.String("config", "", "配置文件路径")
		subject    = flag.String("sub", "admin", "令牌主体")
		roles      = flag.String("roles", "admin", "角色列表，逗号分隔")
		expiry     = flag.Duration("ttl", auth.DefaultTokenExpiry, "有效期")
		revoke     = flag.String("revoke", "", "吊销指定令牌（需要 Redis）")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fatalf("加载配置失败: %v", err)
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		fatalf("auth.jwt_secret 未配置")
	}

	if *revoke != "" {
		revokeToken(cfg, *revoke)
		return
	}

	svc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, nil)
	token, err := svc.GenerateToken(*subject, splitRoles(*roles), *expiry)
	if err != nil {
		fatalf("签发令牌失败: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "有效期至 %s\n", time.Now().Add(*expiry).Format(time.RFC3339))
}

// revokeToken 把令牌写入 Redis 黑名单，直到其自然过期
func revokeToken(cfg *config.Config, token string) {
	if !cfg.Redis.Enabled {
		fatalf("redis.enabled 为 false，无法吊销令牌")
	}
	rdb, err := infra.NewRedisClient(&cfg.Redis)
	if err != nil {
		fatalf("连接 Redis 失败: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, rdb)
	if _, err := svc.ValidateToken(ctx, token); err != nil {
		fatalf("令牌无效: %v", err)
	}
	if err := svc.InvalidateToken(ctx, token); err != nil {
		fatalf("吊销令牌失败: %v", err)
	}
	fmt.Fprintln(os.Stderr, "令牌已吊销")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitRoles(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
