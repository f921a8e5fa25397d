package pebbledb

import (
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/qubic/go-transfers-trigger/entities"
)

const snapshotPerIdentityKey = 0x01

// Store persists the last transfers response per identity, so that the change baseline survives restarts.
type Store struct {
	db *pebble.DB
}

func NewSnapshotStore(storeDir string) (*Store, error) {
	db, err := pebble.Open(filepath.Join(storeDir, "transfers-trigger-store"), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble db")
	}

	return &Store{db: db}, nil
}

func snapshotKey(identity string) []byte {
	key := []byte{snapshotPerIdentityKey}
	return append(key, []byte(identity)...)
}

func (ps *Store) SetSnapshot(identity string, response *entities.TransferResponse) error {
	value, err := json.Marshal(response)
	if err != nil {
		return errors.Wrapf(err, "encoding snapshot for identity [%s]", identity)
	}

	err = ps.db.Set(snapshotKey(identity), value, pebble.Sync)
	if err != nil {
		return errors.Wrapf(err, "setting snapshot for identity [%s]", identity)
	}
	return nil
}

func (ps *Store) GetSnapshot(identity string) (*entities.TransferResponse, error) {
	value, closer, err := ps.db.Get(snapshotKey(identity))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, entities.ErrStoreEntityNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting snapshot for identity [%s]", identity)
	}
	defer closer.Close()

	var response entities.TransferResponse
	err = json.Unmarshal(value, &response) // copies the value, it is only valid until closer is closed
	if err != nil {
		return nil, errors.Wrapf(err, "decoding snapshot for identity [%s]", identity)
	}
	return &response, nil
}

func (ps *Store) Close() error {
	return ps.db.Close()
}
