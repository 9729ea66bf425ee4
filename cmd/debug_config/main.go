// Prints the configuration the engine would actually run with, secrets
// masked. Answers "why is this instance escalating after 30 minutes when I
// set 45" without attaching a debugger.
package main

import (
	"fmt"

	"workalone-be/internal/config"
)

func main() {
	fmt.Println("=== Debug: Resolved Engine Configuration ===")
	fmt.Println()

	cfg := config.Load()

	fmt.Println("📋 App:")
	fmt.Printf("   port                = %s\n", cfg.App.Port)
	fmt.Printf("   environment         = %s\n", cfg.App.Environment)
	fmt.Printf("   log_file            = %s\n", cfg.App.LogFilePath)
	fmt.Printf("   cors_origins        = %s\n", cfg.App.CorsAllowedOrigins)
	fmt.Printf("   nats_url            = %s\n", cfg.App.NatsURL)
	fmt.Printf("   redis_url           = %s\n", cfg.App.RedisURL)

	fmt.Println("\n📋 Database:")
	fmt.Printf("   driver              = %s\n", cfg.Database.Driver)
	if cfg.Database.Driver == "sqlite" {
		fmt.Printf("   sqlite_path         = %s\n", cfg.Database.SqlitePath)
	} else {
		fmt.Printf("   connection_string   = %s\n", mask(cfg.Database.Connection))
	}

	fmt.Println("\n📋 Gateway:")
	fmt.Printf("   provider            = %s\n", cfg.Gateway.Provider)
	fmt.Printf("   from_number         = %s\n", cfg.Gateway.FromNumber)
	fmt.Printf("   account_sid         = %s\n", mask(cfg.Gateway.AccountSid))
	fmt.Printf("   auth_token          = %s\n", mask(cfg.Gateway.AuthToken))
	fmt.Printf("   webhook_url         = %s\n", cfg.Gateway.WebhookURL)
	fmt.Printf("   validate_signature  = %v\n", cfg.Gateway.ValidateSignature)

	fmt.Println("\n📋 Engine:")
	fmt.Printf("   worker_count        = %d\n", cfg.Engine.WorkerCount)
	fmt.Printf("   default_delay       = %d minutes\n", cfg.Engine.DefaultDelayMinutes)
	fmt.Printf("   store_max_attempts  = %d\n", cfg.Engine.StoreMaxAttempts)
	fmt.Printf("   store_retry         = %s\n", cfg.Engine.StoreRetryInterval)
	fmt.Printf("   send_timeout        = %s\n", cfg.Engine.SendTimeout)

	fmt.Println("\n📋 Ops:")
	fmt.Printf("   username            = %s\n", cfg.Ops.Username)
	fmt.Printf("   password_hash       = %s\n", mask(cfg.Ops.PasswordHash))
	if cfg.Ops.Username == "" || cfg.Ops.PasswordHash == "" {
		fmt.Println("   ⚠️  Ops login unconfigured: the dashboard will reject every login")
	}

	fmt.Println("\n📋 SMTP:")
	fmt.Printf("   host                = %s:%d\n", cfg.SMTP.Host, cfg.SMTP.Port)
	fmt.Printf("   sender              = %s <%s>\n", cfg.SMTP.SenderName, cfg.SMTP.Email)
	fmt.Printf("   on_call             = %s\n", cfg.SMTP.OnCallEmail)

	if cfg.Gateway.Provider == "memory" {
		fmt.Println("\n⚠️  GATEWAY IS IN MEMORY MODE!")
		fmt.Println("   No SMS will leave this process. Fine for local work,")
		fmt.Println("   wrong for anything a real person depends on.")
	}
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
