package main

import (
	"log"

	"github.com/urfave/cli/v2"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS vendors (
	id UUID PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	contact_details TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	on_time_delivery_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	quality_rating_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
	average_response_time DOUBLE PRECISION NOT NULL DEFAULT 0,
	fulfillment_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id UUID PRIMARY KEY,
	po_number TEXT NOT NULL UNIQUE,
	vendor_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
	order_date TIMESTAMPTZ NOT NULL,
	delivery_date TIMESTAMPTZ NOT NULL,
	issue_date TIMESTAMPTZ NOT NULL,
	acknowledgment_date TIMESTAMPTZ,
	items JSONB NOT NULL DEFAULT '{}',
	quantity INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	prev_status TEXT,
	quality_rating DOUBLE PRECISION,
	is_delivered_late BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_purchase_orders_vendor_id ON purchase_orders (vendor_id);
CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders (status);

CREATE TABLE IF NOT EXISTS performance_history (
	id UUID PRIMARY KEY,
	vendor_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
	recorded_at TIMESTAMPTZ NOT NULL,
	on_time_delivery_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	quality_rating_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
	average_response_time DOUBLE PRECISION NOT NULL DEFAULT 0,
	fulfillment_rate DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_performance_history_vendor_recorded
	ON performance_history (vendor_id, recorded_at);
`

func runSchema(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(c.Context, schemaDDL); err != nil {
		return err
	}

	log.Println("schema created")
	return nil
}
