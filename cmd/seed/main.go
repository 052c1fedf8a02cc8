package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and seed vendors and purchase orders",
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create tables and indexes if they do not exist",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSchema,
			},
			{
				Name:  "vendors",
				Usage: "Seed vendors from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with vendor rows",
						Value:   "./data/seeds/vendors.csv",
						EnvVars: []string{"VENDOR_SEED_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedVendors,
			},
			{
				Name:  "orders",
				Usage: "Seed purchase orders from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with purchase order rows",
						Value:   "./data/seeds/purchase_orders.csv",
						EnvVars: []string{"PO_SEED_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedPurchaseOrders,
			},
			{
				Name:  "all",
				Usage: "Create the schema and seed everything",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "vendors-file",
						Value:   "./data/seeds/vendors.csv",
						EnvVars: []string{"VENDOR_SEED_FILE"},
					},
					&cli.StringFlag{
						Name:    "orders-file",
						Value:   "./data/seeds/purchase_orders.csv",
						EnvVars: []string{"PO_SEED_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedAll,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
