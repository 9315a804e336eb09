package store

import "time"

// Config selects and configures the backends Open dials
type Config struct {
	// AppName is reported to postgres as application_name
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries and PingTimeout bound the boot ping loop
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled  bool
	URL      string
	Database string

	// ClientName is the process role, ClientTag a build or deploy tag
	ClientName string
	ClientTag  string

	MaxOpenConns int
	SlowQueryMs  int
	Debug        bool
}

// RedisConfig configures the node cache client
type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}
