package ai

import (
	"errors"
	"testing"

	"aiplugin/pkg/aiinterface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		vendor VendorType
		host   string
		want   string
	}{
		{"openai 追加 v1", VendorOpenAI, "https://api.openai.com", "https://api.openai.com/v1"},
		{"openai 已有 v1", VendorOpenAI, "https://api.openai.com/v1", "https://api.openai.com/v1"},
		{"openai 末尾斜杠", VendorOpenAI, "https://proxy.local/", "https://proxy.local/v1"},
		{"anthropic", VendorAnthropic, "https://api.anthropic.com", "https://api.anthropic.com/v1"},
		{"gemini", VendorGemini, "https://generativelanguage.googleapis.com", "https://generativelanguage.googleapis.com/v1beta/openai"},
		{"groq", VendorGroq, "https://api.groq.com/", "https://api.groq.com/openai/v1"},
		{"openrouter", VendorOpenRouter, "https://openrouter.ai", "https://openrouter.ai/api/v1"},
		{"mistral 原样", VendorMistral, "https://api.mistral.ai/v1", "https://api.mistral.ai/v1"},
		{"cohere 原样", VendorCohere, "https://cohere.proxy", "https://cohere.proxy"},
		{"空 host", VendorOpenAI, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.vendor, tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBaseURLIdempotent(t *testing.T) {
	for _, vendor := range AllVendors() {
		if vendor == VendorBedrock {
			continue
		}
		once, err := NormalizeBaseURL(vendor, "https://example.com/")
		require.NoError(t, err)
		twice, err := NormalizeBaseURL(vendor, once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, vendor.String())
	}
}

func TestNormalizeBaseURLUnknownVendor(t *testing.T) {
	_, err := NormalizeBaseURL(VendorType(99), "https://x")
	assert.True(t, errors.Is(err, ErrUnsupportedVendor))
}

func TestResolveRegion(t *testing.T) {
	assert.Equal(t, "us-west-2", ResolveRegion("us-west-2"))
	assert.Equal(t, DefaultBedrockRegion, ResolveRegion(""))
	assert.Equal(t, DefaultBedrockRegion, ResolveRegion("https://bedrock.example.com"))
}

func TestNewModelClient(t *testing.T) {
	f := NewClientFactory()

	tests := []struct {
		name       string
		vendor     VendorType
		host       string
		wantBase   string
		wantRegion string
	}{
		{"groq 补后缀", VendorGroq, "https://api.groq.com/", "https://api.groq.com/openai/v1", ""},
		{"openai 默认地址", VendorOpenAI, "", "https://api.openai.com/v1", ""},
		{"anthropic 默认地址", VendorAnthropic, "", "https://api.anthropic.com/v1", ""},
		{"huggingface 默认地址", VendorHuggingFace, "", "https://router.huggingface.co/v1", ""},
		{"outlines 默认地址", VendorOutlines, "", "http://localhost:8000/v1", ""},
		{"bedrock 指定区域", VendorBedrock, "us-west-2", "https://bedrock-runtime.us-west-2.amazonaws.com/openai/v1", "us-west-2"},
		{"bedrock 默认区域", VendorBedrock, "", "https://bedrock-runtime.us-east-1.amazonaws.com/openai/v1", "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := f.NewModelClient(tt.vendor, "m-1", "sk-test", tt.host, aiinterface.ModelSettings{})
			require.NoError(t, err)
			info := client.Info()
			assert.Equal(t, tt.vendor.String(), info.Vendor)
			assert.Equal(t, "m-1", info.Model)
			assert.Equal(t, tt.wantBase, info.BaseURL)
			assert.Equal(t, tt.wantRegion, info.Region)
		})
	}
}

func TestNewModelClientUnknownVendor(t *testing.T) {
	_, err := NewClientFactory().NewModelClient(VendorType(42), "m", "k", "", aiinterface.ModelSettings{})
	assert.ErrorIs(t, err, ErrUnsupportedVendor)
}

func TestParseVendorType(t *testing.T) {
	v, err := ParseVendorType("Groq")
	require.NoError(t, err)
	assert.Equal(t, VendorGroq, v)

	v, err = ParseVendorType("huggingface")
	require.NoError(t, err)
	assert.Equal(t, VendorHuggingFace, v)

	v, err = ParseVendorType("3")
	require.NoError(t, err)
	assert.Equal(t, VendorBedrock, v)

	_, err = ParseVendorType("azure")
	assert.ErrorIs(t, err, ErrUnsupportedVendor)
	_, err = ParseVendorType("11")
	assert.ErrorIs(t, err, ErrUnsupportedVendor)
}
