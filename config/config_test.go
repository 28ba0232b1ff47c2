package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/payment_core?parseTime=true")
	setEnv(t, "MYSQL_REPLICA_DSN", "root:root@tcp(replica:3306)/payment_core?parseTime=true")
	setEnv(t, "APP_SERVICE_NAME", "payment-core-test")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "PAYMENTS_CLIENT_SECRET_EXPIRY_MINUTES", "25")
	setEnv(t, "PAYMENTS_TASK_RETRY_INTERVAL_MINUTES", "7")
	setEnv(t, "PAYMENTS_TASK_BATCH_SIZE", "99")
	setEnv(t, "PAYMENTS_TASK_RUN_INTERVAL_MINUTES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "payment-core-test" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.HTTP.Port != "8181" {
		t.Fatalf("unexpected http port: %s", cfg.HTTP.Port)
	}
	if cfg.MySQL.ReplicaDSN == "" {
		t.Fatal("expected replica DSN to be read")
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.MaxIdleConns != 8 {
		t.Fatalf("unexpected mysql pool config: %+v", cfg.MySQL)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql lifetime: %v", cfg.MySQL.ConnMaxLifetime)
	}
	if cfg.Payments.ClientSecretExpiry != 25*time.Minute {
		t.Fatalf("unexpected client secret expiry: %v", cfg.Payments.ClientSecretExpiry)
	}
	if cfg.Payments.TaskRetryInterval != 7*time.Minute {
		t.Fatalf("unexpected task retry interval: %v", cfg.Payments.TaskRetryInterval)
	}
	if cfg.Payments.TaskBatchSize != 99 {
		t.Fatalf("unexpected task batch size: %d", cfg.Payments.TaskBatchSize)
	}
	if cfg.Tasks.RunInterval != 2*time.Minute {
		t.Fatalf("unexpected task run interval: %v", cfg.Tasks.RunInterval)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/payment_core?parseTime=true")
	unsetEnv(t, "MYSQL_REPLICA_DSN")
	unsetEnv(t, "PAYMENTS_CLIENT_SECRET_EXPIRY_MINUTES")
	unsetEnv(t, "PAYMENTS_TASK_BATCH_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MySQL.ReplicaDSN != "" {
		t.Fatalf("expected empty replica DSN default, got %s", cfg.MySQL.ReplicaDSN)
	}
	if cfg.Payments.ClientSecretExpiry != 15*time.Minute {
		t.Fatalf("unexpected default client secret expiry: %v", cfg.Payments.ClientSecretExpiry)
	}
	if cfg.Payments.TaskBatchSize != 100 {
		t.Fatalf("unexpected default task batch size: %d", cfg.Payments.TaskBatchSize)
	}
}
