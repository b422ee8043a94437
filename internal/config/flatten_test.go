package config

import "testing"

func TestFlatten(t *testing.T) {
	nested := map[string]any{
		"log_level": "info",
		"llm": map[string]any{
			"provider": "openai",
			"model":    "gpt-4o-mini",
		},
		"debate": map[string]any{
			"judges": float64(3),
		},
	}

	flat := Flatten(nested)

	if flat["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", flat["log_level"])
	}
	if flat["llm.provider"] != "openai" {
		t.Errorf("expected llm.provider=openai, got %v", flat["llm.provider"])
	}
	if flat["llm.model"] != "gpt-4o-mini" {
		t.Errorf("expected llm.model=gpt-4o-mini, got %v", flat["llm.model"])
	}
	if flat["debate.judges"] != float64(3) {
		t.Errorf("expected debate.judges=3, got %v", flat["debate.judges"])
	}
	if _, ok := flat["llm"]; ok {
		t.Error("nested map key should not survive flattening")
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("llm.api_key") {
		t.Error("llm.api_key should be secret")
	}
	if !IsSecretKey("telegram.token") {
		t.Error("telegram.token should be secret")
	}
	if IsSecretKey("llm.model") {
		t.Error("llm.model should not be secret")
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"llm.api_key":    "sk-abcdefgh-1234",
		"telegram.token": "abc",
		"llm.model":      "gpt-4o-mini",
		"debate.judges":  float64(3),
	}

	masked := MaskSecrets(flat)

	if masked["llm.api_key"] != "***1234" {
		t.Errorf("expected ***1234, got %v", masked["llm.api_key"])
	}
	// Short secrets keep their full value behind the prefix.
	if masked["telegram.token"] != "***abc" {
		t.Errorf("expected ***abc, got %v", masked["telegram.token"])
	}
	if masked["llm.model"] != "gpt-4o-mini" {
		t.Errorf("non-secret must be unchanged, got %v", masked["llm.model"])
	}
	if masked["debate.judges"] != float64(3) {
		t.Errorf("non-string must be unchanged, got %v", masked["debate.judges"])
	}
}

func TestMaskSecretsEmptyValue(t *testing.T) {
	masked := MaskSecrets(map[string]any{"llm.api_key": ""})
	if masked["llm.api_key"] != "" {
		t.Errorf("empty secret must stay empty, got %v", masked["llm.api_key"])
	}
}
