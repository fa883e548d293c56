package sqlite

import (
	"fmt"
	"time"

	"github.com/Xichen96/sonic-mgmt/internal/cache"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const TABLE_NAME = "sonic_outlet_snapshots"

// OutletSnapshot is one cached outlet status row. Snapshots are an
// operator convenience for comparing power state across runs; they are
// never used as a topology source.
type OutletSnapshot struct {
	DutHost   string    `db:"dut_host" json:"dut_host"`
	PduName   string    `db:"pdu_name" json:"pdu_name"`
	PsuName   string    `db:"psu_name" json:"psu_name"`
	FeedName  string    `db:"feed_name" json:"feed_name"`
	OutletID  string    `db:"outlet_id" json:"outlet_id"`
	PowerOn   bool      `db:"power_on" json:"power_on"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

func CreateOutletSnapshotsIfNotExists(path string) (*sqlx.DB, error) {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		dut_host 	TEXT NOT NULL,
		pdu_name 	TEXT NOT NULL,
		psu_name 	TEXT NOT NULL,
		feed_name 	TEXT NOT NULL,
		outlet_id 	TEXT NOT NULL,
		power_on 	INTEGER,
		timestamp 	TIMESTAMP,
		PRIMARY KEY (dut_host, psu_name, feed_name, outlet_id)
	);
	`, TABLE_NAME)
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	db.MustExec(schema)
	return db, nil
}

// SnapshotCache scopes the snapshot table to one DUT.
type SnapshotCache struct {
	DutHost string
}

var _ cache.Cache[OutletSnapshot] = SnapshotCache{}

func (c SnapshotCache) Insert(path string, data ...OutletSnapshot) error {
	if len(data) == 0 {
		return fmt.Errorf("no snapshots to insert")
	}

	db, err := CreateOutletSnapshotsIfNotExists(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx := db.MustBegin()
	sql := fmt.Sprintf(`INSERT OR REPLACE INTO %s
		(dut_host, pdu_name, psu_name, feed_name, outlet_id, power_on, timestamp)
		VALUES (:dut_host, :pdu_name, :psu_name, :feed_name, :outlet_id, :power_on, :timestamp);`, TABLE_NAME)
	for i := range data {
		if _, err := tx.NamedExec(sql, &data[i]); err != nil {
			return fmt.Errorf("failed to execute transaction: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// Delete drops every cached snapshot for the DUT, regardless of data.
func (c SnapshotCache) Delete(path string, data ...OutletSnapshot) error {
	return DeleteOutletSnapshots(path, c.DutHost)
}

func (c SnapshotCache) Get(path string) ([]OutletSnapshot, error) {
	return GetOutletSnapshots(path, c.DutHost)
}

// InsertOutletSnapshots upserts the current status of the given outlets for
// one DUT.
func InsertOutletSnapshots(path string, dutHost string, outlets ...pdu.OutletDescriptor) error {
	if len(outlets) == 0 {
		return fmt.Errorf("no outlets to snapshot")
	}

	now := time.Now()
	snapshots := make([]OutletSnapshot, 0, len(outlets))
	for i := range outlets {
		snapshots = append(snapshots, OutletSnapshot{
			DutHost:   dutHost,
			PduName:   outlets[i].PduName,
			PsuName:   outlets[i].PsuName,
			FeedName:  outlets[i].FeedName,
			OutletID:  outlets[i].OutletID,
			PowerOn:   outlets[i].On(),
			Timestamp: now,
		})
	}
	return SnapshotCache{DutHost: dutHost}.Insert(path, snapshots...)
}

// GetOutletSnapshots returns the cached snapshots for one DUT, or for all
// DUTs when dutHost is empty.
func GetOutletSnapshots(path string, dutHost string) ([]OutletSnapshot, error) {
	db, err := CreateOutletSnapshotsIfNotExists(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	snapshots := []OutletSnapshot{}
	if dutHost == "" {
		err = db.Select(&snapshots, fmt.Sprintf("SELECT * FROM %s ORDER BY dut_host, psu_name, feed_name;", TABLE_NAME))
	} else {
		err = db.Select(&snapshots, fmt.Sprintf("SELECT * FROM %s WHERE dut_host = ? ORDER BY psu_name, feed_name;", TABLE_NAME), dutHost)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %v", err)
	}
	return snapshots, nil
}

// DeleteOutletSnapshots drops the cached snapshots for one DUT.
func DeleteOutletSnapshots(path string, dutHost string) error {
	if dutHost == "" {
		return fmt.Errorf("dut host required")
	}
	db, err := CreateOutletSnapshotsIfNotExists(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE dut_host = ?;", TABLE_NAME), dutHost); err != nil {
		return fmt.Errorf("failed to delete snapshots: %v", err)
	}
	return nil
}
