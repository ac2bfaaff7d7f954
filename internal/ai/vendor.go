package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// VendorType 供应商类型，数值与 ai_provider.type 列一致
type VendorType int

const (
	VendorOpenAI      VendorType = 0
	VendorAnthropic   VendorType = 1
	VendorGemini      VendorType = 2
	VendorBedrock     VendorType = 3
	VendorCerebras    VendorType = 4
	VendorCohere      VendorType = 5
	VendorGroq        VendorType = 6
	VendorHuggingFace VendorType = 7
	VendorMistral     VendorType = 8
	VendorOpenRouter  VendorType = 9
	VendorOutlines    VendorType = 10
)

var vendorNames = map[VendorType]string{
	VendorOpenAI:      "openai",
	VendorAnthropic:   "anthropic",
	VendorGemini:      "gemini",
	VendorBedrock:     "bedrock",
	VendorCerebras:    "cerebras",
	VendorCohere:      "cohere",
	VendorGroq:        "groq",
	VendorHuggingFace: "hugging_face",
	VendorMistral:     "mistral",
	VendorOpenRouter:  "openrouter",
	VendorOutlines:    "outlines",
}

// String 供应商名称
func (v VendorType) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}

// Valid 是否为已知供应商
func (v VendorType) Valid() bool {
	_, ok := vendorNames[v]
	return ok
}

// AllVendors 按编号排序的全部供应商
func AllVendors() []VendorType {
	vendors := make([]VendorType, 0, len(vendorNames))
	for v := VendorOpenAI; v <= VendorOutlines; v++ {
		vendors = append(vendors, v)
	}
	return vendors
}

// ParseVendorType 解析供应商名称或编号
func ParseVendorType(s string) (VendorType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		v := VendorType(n)
		if v.Valid() {
			return v, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedVendor, s)
	}
	s = strings.ReplaceAll(s, "-", "_")
	if s == "huggingface" {
		s = "hugging_face"
	}
	for v, name := range vendorNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedVendor, s)
}
