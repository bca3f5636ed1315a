package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	dummykv "github.com/trezcool/elimu/storage/kv/dummy"
)

var ErrKVDown = errors.New("kv down")

// Entry is one call recorded by Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records every entry instead of printing it.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) record(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.record("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.record("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.record("ERROR", msg, args) }

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.record("FATAL", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the recorded entries of the given levels (all of them when none given).
func (l *Logger) Entries(levels ...string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res []Entry
	for _, e := range l.entries {
		if len(levels) == 0 {
			res = append(res, e)
			continue
		}
		for _, lvl := range levels {
			if e.Level == lvl {
				res = append(res, e)
				break
			}
		}
	}
	return res
}

// KV is an in-memory store whose writes can be made to fail.
type KV struct {
	*dummykv.DB

	mu       sync.Mutex
	failSets bool
	sets     int
}

var _ core.KVStore = (*KV)(nil)

func NewKV() *KV {
	db, _ := dummykv.Open()
	return &KV{DB: db}
}

// FailSets makes every following Set return ErrKVDown.
func (kv *KV) FailSets(fail bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.failSets = fail
}

// Sets returns the number of successful writes.
func (kv *KV) Sets() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.sets
}

func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.failSets {
		return ErrKVDown
	}
	if err := kv.DB.Set(ctx, key, value); err != nil {
		return err
	}
	kv.sets++
	return nil
}

// Put writes raw bytes, bypassing failures and counters.
func (kv *KV) Put(key string, value []byte) {
	_ = kv.DB.Set(context.Background(), key, value)
}

// Raw returns the raw bytes stored under key.
func (kv *KV) Raw(key string) []byte {
	data, _ := kv.DB.Get(context.Background(), key)
	return data
}

// ValueKV is a KVStore passed by value.
type ValueKV struct {
	*KV
}

var _ core.KVStore = ValueKV{}
