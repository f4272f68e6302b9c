package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Rental.LeadTimeBypassDays)
	assert.Equal(t, "Europe/Madrid", cfg.Rental.Timezone)
	assert.True(t, cfg.Rental.LockBookings)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Entorno(t *testing.T) {
	t.Setenv("RENTAL_LEAD_TIME_BYPASS_DAYS", "45")
	t.Setenv("RENTAL_LOCK_BOOKINGS", "false")
	t.Setenv("RENTAL_TIMEZONE", "UTC")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("RUN_MIGRATIONS", "0")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Rental.LeadTimeBypassDays)
	assert.False(t, cfg.Rental.LockBookings)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.False(t, cfg.RunMigrations)

	loc, err := cfg.Rental.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestFromViper_AntelacionCeroSeRespeta(t *testing.T) {
	t.Setenv("RENTAL_LEAD_TIME_BYPASS_DAYS", "0")
	v := viper.New()
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Rental.LeadTimeBypassDays)
}

func TestFromViper_AntelacionNegativaFalla(t *testing.T) {
	t.Setenv("RENTAL_LEAD_TIME_BYPASS_DAYS", "-1")
	v := viper.New()
	v.AutomaticEnv()

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ZonaHorariaInvalida(t *testing.T) {
	t.Setenv("RENTAL_TIMEZONE", "Marte/Olympus")
	v := viper.New()
	v.AutomaticEnv()

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "resonaweb", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/resonaweb?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
