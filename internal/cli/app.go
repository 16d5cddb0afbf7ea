package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/satshine/satshine-backend/internal/config"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

// operatorActor authorizes admin-only service calls made from the CLI. It is
// never written to the audit log: commands that audit run without an actor.
var operatorActor = auth.Actor{
	EmployeeID:   "cli-operator",
	EmployeeCode: "CLI",
	Designation:  employee.DesignationAdmin,
}

func asOperator(ctx context.Context) context.Context {
	return auth.WithActor(ctx, operatorActor)
}

// connect loads configuration and opens the database pool.
func connect(ctx context.Context, opts *RootOptions) (*config.Config, *database.DB, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

// printResult writes v as indented JSON, or calls text for the text format.
func printResult(w io.Writer, opts *RootOptions, v any, text func(io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
