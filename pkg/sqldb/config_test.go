package sqldb

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "mysql",
			cfg:  Config{Driver: DriverMySQL, Host: "db", Port: 3306, User: "root", Password: "pw", DBName: "bank"},
			want: "root:pw@tcp(db:3306)/bank?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres default sslmode",
			cfg:  Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "bank", Password: "pw", DBName: "bank"},
			want: "host=db port=5432 user=bank password=pw dbname=bank sslmode=disable TimeZone=UTC",
		},
		{
			name: "postgres explicit sslmode",
			cfg:  Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "bank", Password: "pw", DBName: "bank", SSLMode: "require"},
			want: "host=db port=5432 user=bank password=pw dbname=bank sslmode=require TimeZone=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestConfigValidation(t *testing.T) {
	v := validator.New()

	ok := Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "bank", DBName: "bank"}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.Driver = "sqlite"
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.LogLevel = "loud"
	assert.Error(t, v.Struct(bad))
}
