package db

// Config carries the warehouse connection settings. Type selects the gorm
// dialect (postgres, mysql or sqlite); the pool durations are seconds.
type Config struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}
