package tttplot

import (
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ArchiveConfig is a MySQL archive configuration parsed from a DSN string.
// On top of the driver's own parameters it understands "table", the name of
// the table points are stored in.
type ArchiveConfig struct {
	mysql.Config

	table string
}

// NewArchiveConfig creates a new ArchiveConfig and sets default values.
func NewArchiveConfig() *ArchiveConfig {
	var cfg = mysql.NewConfig()

	return &ArchiveConfig{
		Config: *cfg,
		table:  DefaultArchiveTable,
	}
}

func (cfg *ArchiveConfig) Table() string {
	return cfg.table
}

func (cfg *ArchiveConfig) SetTable(name string) error {
	if !tableName.MatchString(name) {
		return errors.Errorf("invalid archive table name %q", name)
	}
	cfg.table = name
	return nil
}

// DriverDSN is the DSN handed to the MySQL driver, without archive parameters.
func (cfg *ArchiveConfig) DriverDSN() string {
	return cfg.Config.FormatDSN()
}

// FormatDSN formats the configuration back into a DSN, archive parameters included.
func (cfg *ArchiveConfig) FormatDSN() string {
	var cp = cfg.Config.Clone()

	if cfg.table != "" && cfg.table != DefaultArchiveTable {
		if cp.Params == nil {
			cp.Params = make(map[string]string, 1)
		}
		cp.Params["table"] = cfg.table
	}

	return cp.FormatDSN()
}

// Redacted is FormatDSN with the password masked, for logging.
func (cfg *ArchiveConfig) Redacted() string {
	var cp = *cfg
	cp.Config = *cfg.Config.Clone()
	if cp.Passwd != "" {
		cp.Passwd = "xxxxx"
	}
	return cp.FormatDSN()
}

// ParseArchiveDSN parses the DSN string to an ArchiveConfig.
func ParseArchiveDSN(dsn string) (*ArchiveConfig, error) {
	var mysqlCfg, err = mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse archive dsn")
	}

	var cfg = ArchiveConfig{
		Config: *mysqlCfg,
		table:  DefaultArchiveTable,
	}

	if value, ok := mysqlCfg.Params["table"]; ok {
		// unknown params are sent to the server as system variables
		delete(cfg.Params, "table")
		if err = cfg.SetTable(value); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
