package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-engine/internal/domain"
)

const (
	PoolsBucket    = "pools"
	SnapshotBucket = "snapshot"

	snapshotKey = "current"

	DefaultDBPath = "./data/swap-engine.db"
)

// Snapshot records which pools made up the last fetched list, in feed order.
type Snapshot struct {
	PoolIDs   []string  `json:"poolIds"`
	FetchedAt time.Time `json:"fetchedAt"`
	Source    string    `json:"source"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[snapshotStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePools writes every pool and then the snapshot that lists them.
func (s *Storage) SavePools(pools []domain.LiquidityPool, source string) error {
	batch := s.db.NewBatch()
	snap := Snapshot{
		PoolIDs:   make([]string, 0, len(pools)),
		FetchedAt: time.Now().UTC(),
		Source:    source,
	}

	for i := range pools {
		id := pools[i].ID.String()
		data, err := sonic.Marshal(&pools[i])
		if err != nil {
			return fmt.Errorf("failed to marshal pool %s: %w", id, err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(PoolsBucket),
			Key:    []byte(id),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add pool %s to batch: %w", id, err)
		}
		snap.PoolIDs = append(snap.PoolIDs, id)
	}

	if len(pools) > 0 {
		if err := batch.Execute(); err != nil {
			log.Error().Err(err).Int("count", len(pools)).Msg("[snapshotStorage] FAILED to execute batch")
			return err
		}
	}

	data, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.db.Set(SnapshotBucket, []byte(snapshotKey), data); err != nil {
		return err
	}

	log.Info().Int("count", len(pools)).Str("source", source).Msg("[snapshotStorage] saved pool snapshot")
	return nil
}

// LoadPools returns the pools of the last snapshot in their original order.
// No snapshot yields an empty list.
func (s *Storage) LoadPools() ([]domain.LiquidityPool, *Snapshot, error) {
	snaps, err := s.db.List(SnapshotBucket)
	if err != nil {
		// fresh database: the bucket is created by the first save
		log.Debug().Err(err).Msg("[snapshotStorage] no snapshot bucket")
		return []domain.LiquidityPool{}, nil, nil
	}
	raw, ok := snaps[snapshotKey]
	if !ok {
		return []domain.LiquidityPool{}, nil, nil
	}
	var snap Snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pools: %w", err)
	}

	pools := make([]domain.LiquidityPool, 0, len(snap.PoolIDs))
	missing, unmarshalFailed := 0, 0
	for _, id := range snap.PoolIDs {
		value, ok := data[id]
		if !ok {
			missing++
			continue
		}
		var pool domain.LiquidityPool
		if err := sonic.Unmarshal(value, &pool); err != nil {
			log.Error().Str("id", id).Err(err).Msg("[snapshotStorage] failed to unmarshal pool, skipping")
			unmarshalFailed++
			continue
		}
		pools = append(pools, pool)
	}

	if missing > 0 || unmarshalFailed > 0 {
		log.Error().
			Int("in_snapshot", len(snap.PoolIDs)).
			Int("loaded", len(pools)).
			Int("missing", missing).
			Int("unmarshal_failed", unmarshalFailed).
			Msg("[snapshotStorage] pool loading completed with errors")
	} else {
		log.Info().
			Int("loaded", len(pools)).
			Time("fetched_at", snap.FetchedAt).
			Msg("[snapshotStorage] pool loading completed successfully")
	}

	return pools, &snap, nil
}

func (s *Storage) GetPool(id solana.PublicKey) (*domain.LiquidityPool, error) {
	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return nil, err
	}
	raw, ok := data[id.String()]
	if !ok {
		return nil, nil
	}
	var pool domain.LiquidityPool
	if err := sonic.Unmarshal(raw, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}
