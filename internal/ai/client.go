package ai

import (
	"aiplugin/pkg/aiinterface"
)

// 重新导出 aiinterface 包的类型，子包只依赖 aiinterface 避免循环引用
type (
	Message               = aiinterface.Message
	ModelSettings         = aiinterface.ModelSettings
	ChatCompletionRequest = aiinterface.ChatCompletionRequest
	StreamChunk           = aiinterface.StreamChunk
	ModelClient           = aiinterface.ModelClient
	ClientInfo            = aiinterface.ClientInfo
	ClientConfig          = aiinterface.ClientConfig
	ClientError           = aiinterface.ClientError
	ErrorType             = aiinterface.ErrorType
)

// 重新导出常量
const (
	ErrorTypeAuth          = aiinterface.ErrorTypeAuth
	ErrorTypeRateLimit     = aiinterface.ErrorTypeRateLimit
	ErrorTypeInvalidParams = aiinterface.ErrorTypeInvalidParams
	ErrorTypeServerError   = aiinterface.ErrorTypeServerError
	ErrorTypeNetwork       = aiinterface.ErrorTypeNetwork
	ErrorTypeUnknown       = aiinterface.ErrorTypeUnknown
)
