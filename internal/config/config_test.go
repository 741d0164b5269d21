package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	cfg := &Config{}
	cfg.Feishu.AppID = "cli_test"
	cfg.Feishu.AppSecret = "secret"
	cfg.Feishu.ChatID = "oc_test"
	cfg.Report.Source = "stats"
	cfg.Report.LatePunchPolicy = "on_duty_only"
	cfg.Report.TotalDaysMode = "distinct"
	cfg.Report.MorningStartMin = 390
	cfg.Report.MorningEndMin = 510
	return cfg
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(validTestConfig()))
}

func TestValidateConfigRequiresCredentials(t *testing.T) {
	cfg := validTestConfig()
	cfg.Feishu.AppSecret = ""
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfigRequiresDeliveryTarget(t *testing.T) {
	cfg := validTestConfig()
	cfg.Feishu.ChatID = ""
	assert.Error(t, ValidateConfig(cfg))

	// webhook alone is a valid target
	cfg.Feishu.WebhookURL = "https://open.feishu.cn/open-apis/bot/v2/hook/x"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigEnums(t *testing.T) {
	cfg := validTestConfig()
	cfg.Report.Source = "csv"
	assert.Error(t, ValidateConfig(cfg))

	cfg = validTestConfig()
	cfg.Report.LatePunchPolicy = "whatever"
	assert.Error(t, ValidateConfig(cfg))

	cfg = validTestConfig()
	cfg.Report.TotalDaysMode = "calendar"
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfigWindowOrder(t *testing.T) {
	cfg := validTestConfig()
	cfg.Report.MorningStartMin = 510
	cfg.Report.MorningEndMin = 390
	assert.Error(t, ValidateConfig(cfg))
}
