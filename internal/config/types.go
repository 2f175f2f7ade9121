package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// ConfigServer настройки HTTP сервера
type ConfigServer struct {
	PortHTTP                int `mapstructure:"port_http"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigVault настройки файлового хранилища заметок.
// Пустой Path включает in-memory репозиторий (режим без персистентности).
type ConfigVault struct {
	Path         string   `mapstructure:"path"`
	IncludeGlobs []string `mapstructure:"include_globs"`
	Watch        bool     `mapstructure:"watch"`
}

// ConfigGateway настройки IPC-границы (CORS, rate limiting, авторизация)
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
	AuthToken          string `mapstructure:"auth_token"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Server  *ConfigServer  `mapstructure:"server"`
	Vault   *ConfigVault   `mapstructure:"vault"`
	Gateway *ConfigGateway `mapstructure:"gateway"`
}
