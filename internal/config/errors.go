package config

import "errors"

// Validation failures reported by ReadConfig.
var (
	ErrEmptyURL                  = errors.New("config: Webserver.URL is required")
	ErrWebServerPortCanNotBeZero = errors.New("config: Webserver.Port must not be 0")
	ErrUnknownGormEngine         = errors.New("config: DB.GormEngine must be mysql, postgres or sqlite")
)
