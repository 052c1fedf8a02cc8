package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func nullFloat(s string) (sql.NullFloat64, error) {
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

func nullTime(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	// Skip the header row.
	if _, err := r.Read(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return r, f, nil
}

// seedVendors loads vendor rows from a CSV with columns:
// code,name,contact_details,address
func seedVendors(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	if path == "" {
		path = c.String("vendors-file")
	}

	r, f, err := openCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const insert = `
		INSERT INTO vendors (id, code, name, contact_details, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING`

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read vendor row: %w", err)
		}
		if len(record) < 2 {
			log.Printf("skipping short vendor row: %v", record)
			continue
		}

		contact, address := "", ""
		if len(record) > 2 {
			contact = record[2]
		}
		if len(record) > 3 {
			address = record[3]
		}

		if _, err := db.ExecContext(c.Context, insert,
			uuid.NewString(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), contact, address,
		); err != nil {
			return fmt.Errorf("failed to insert vendor %s: %w", record[0], err)
		}
		count++
	}

	log.Printf("seeded %d vendors from %s", count, path)
	return nil
}

// seedPurchaseOrders loads order rows from a CSV with columns:
// po_number,vendor_code,order_date,delivery_date,issue_date,acknowledgment_date,items,quantity,status,quality_rating,is_delivered_late
func seedPurchaseOrders(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	if path == "" {
		path = c.String("orders-file")
	}

	r, f, err := openCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const insert = `
		INSERT INTO purchase_orders (
			id, po_number, vendor_id, order_date, delivery_date, issue_date,
			acknowledgment_date, items, quantity, status, quality_rating, is_delivered_late
		)
		SELECT $1, $2, v.id, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12
		FROM vendors v WHERE v.code = $3
		ON CONFLICT (po_number) DO NOTHING`

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read purchase order row: %w", err)
		}
		if len(record) < 11 {
			log.Printf("skipping short purchase order row: %v", record)
			continue
		}

		orderDate, err := time.Parse(time.RFC3339, record[2])
		if err != nil {
			return fmt.Errorf("bad order_date in row %s: %w", record[0], err)
		}
		deliveryDate, err := time.Parse(time.RFC3339, record[3])
		if err != nil {
			return fmt.Errorf("bad delivery_date in row %s: %w", record[0], err)
		}
		issueDate, err := time.Parse(time.RFC3339, record[4])
		if err != nil {
			return fmt.Errorf("bad issue_date in row %s: %w", record[0], err)
		}
		ackDate, err := nullTime(record[5])
		if err != nil {
			return fmt.Errorf("bad acknowledgment_date in row %s: %w", record[0], err)
		}

		items := record[6]
		if strings.TrimSpace(items) == "" {
			items = "{}"
		}

		quantity, err := strconv.Atoi(record[7])
		if err != nil {
			return fmt.Errorf("bad quantity in row %s: %w", record[0], err)
		}

		rating, err := nullFloat(record[9])
		if err != nil {
			return fmt.Errorf("bad quality_rating in row %s: %w", record[0], err)
		}

		late := strings.EqualFold(strings.TrimSpace(record[10]), "true")

		if _, err := db.ExecContext(c.Context, insert,
			uuid.NewString(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]),
			orderDate, deliveryDate, issueDate, ackDate, items, quantity,
			strings.ToLower(strings.TrimSpace(record[8])), rating, late,
		); err != nil {
			return fmt.Errorf("failed to insert purchase order %s: %w", record[0], err)
		}
		count++
	}

	log.Printf("seeded %d purchase orders from %s", count, path)
	return nil
}

func seedAll(c *cli.Context) error {
	if err := runSchema(c); err != nil {
		return err
	}
	if err := seedVendors(c); err != nil {
		return err
	}
	return seedPurchaseOrders(c)
}
