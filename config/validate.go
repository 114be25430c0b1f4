package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var logLevels = []any{"trace", "debug", "info", "notice", "warn", "warning", "error", "fatal", "panic"}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Logging),
		validation.Field(&c.Server),
		validation.Field(&c.WeChat),
	)
}

func (l LoggingConfig) Validate() error {
	level := strings.ToLower(l.Level)
	return validation.Validate(level, validation.In(logLevels...).Error("unsupported log level"))
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, is.Port),
		validation.Field(&s.CORSAllowedOrigins, validation.Each(validation.Required)),
	)
}

func (w WeChatConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.BaseURL, validation.Required, is.RequestURL),
		validation.Field(&w.Author, validation.Required),
		validation.Field(&w.APITimeout, validation.Min(time.Second)),
		validation.Field(&w.ImageFetchTimeout, validation.Min(time.Second)),
	)
}
