// Copyright 2020 Wearless Tech Inc All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"os"

	g "github.com/chryscloud/nexus-monitor/globals"
	badger "github.com/dgraph-io/badger/v2"
)

// Storage - key value storage of config revisions (Get, Put, Del, List)
type Storage struct {
	db *badger.DB
}

// OpenStorage opens (or creates) the badger database under path
func OpenStorage(path string) (*Storage, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		g.Log.Error("failed to create directory for DB", path, err)
		return nil, err
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		g.Log.Error("failed to open database", path, err)
		return nil, err
	}
	return NewStorage(db), nil
}

func NewStorage(db *badger.DB) *Storage {
	return &Storage{
		db: db,
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Put stores value under prefix+key, replacing any previous value
func (s *Storage) Put(prefix, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefix+key), value)
	})
	return err
}

// Get returns badger.ErrKeyNotFound when the key does not exist
func (s *Storage) Get(prefix, key string) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefix + key))
		if err != nil {
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	return valCopy, err
}

// Del removes prefix+key, deleting a missing key is not an error
func (s *Storage) Del(prefix, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefix + key))
	})
	return err
}

// List returns all values under prefix keyed by the key without the prefix
func (s *Storage) List(prefix string) (map[string][]byte, error) {
	results := make(map[string][]byte)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 128
		it := txn.NewIterator(opts)
		defer it.Close()
		pfix := []byte(prefix)
		for it.Seek(pfix); it.ValidForPrefix(pfix); it.Next() {
			item := it.Item()
			k := string(item.Key()[len(pfix):])
			v, err := item.ValueCopy(nil)
			if err != nil {
				g.Log.Error("failed to iterate in db", err)
				return err
			}
			results[k] = v
		}
		return nil
	})
	return results, err
}
