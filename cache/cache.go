// Package cache 用 bbolt 持久化渲染结果与用户字体，避免监听模式与批量渲染时重复绘制同一配置。
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ByLCY/slackmoji/config"
)

var (
	rendersBucket = []byte("renders")
	fontsBucket   = []byte("fonts")
)

// ErrMiss 表示缓存中没有该键。
var ErrMiss = errors.New("cache miss")

// Store 是一个 bbolt 数据库文件。可并发使用。
type Store struct {
	db *bolt.DB
}

// Open 打开（必要时创建）path 处的缓存文件。
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开缓存 %s 失败: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{rendersBucket, fontsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化缓存 %s 失败: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close 关闭数据库。
func (s *Store) Close() error {
	return s.db.Close()
}

// Key 返回 cfg 与 extra（例如输出格式、预览背景）的摘要，作为渲染结果的键。
func Key(cfg config.RenderConfig, extra ...string) string {
	h := sha256.New()
	// RenderConfig 只含基本类型字段，编码不会失败
	data, _ := json.Marshal(cfg)
	h.Write(data)
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// sizeLen 是渲染结果前缀（float64 字号，大端序）的长度。
const sizeLen = 8

// Get 读取 key 对应的渲染结果及渲染时求得的字号，不存在时返回 ErrMiss。
// 格式不符的旧条目同样视为未命中。
func (s *Store) Get(key string) ([]byte, float64, error) {
	v, err := s.get(rendersBucket, key)
	if err != nil {
		return nil, 0, err
	}
	if len(v) < sizeLen {
		return nil, 0, ErrMiss
	}
	return v[sizeLen:], math.Float64frombits(binary.BigEndian.Uint64(v)), nil
}

// Put 写入渲染结果与字号。
func (s *Store) Put(key string, data []byte, fontSize float64) error {
	v := make([]byte, sizeLen, sizeLen+len(data))
	binary.BigEndian.PutUint64(v, math.Float64bits(fontSize))
	return s.put(rendersBucket, key, append(v, data...))
}

// PutFont 保存字体数据。
func (s *Store) PutFont(name string, data []byte) error {
	return s.put(fontsBucket, name, data)
}

// Fonts 对每个保存的字体调用 fn，fn 返回错误时停止遍历。
func (s *Store) Fonts(fn func(name string, data []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(fontsBucket).ForEach(func(k, v []byte) error {
			// v 只在事务内有效
			return fn(string(k), append([]byte(nil), v...))
		})
	})
}

// Len 返回已缓存的渲染结果数量。
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(rendersBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Purge 清空渲染结果，保留字体。
func (s *Store) Purge() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(rendersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(rendersBucket)
		return err
	})
}

func (s *Store) get(bucket []byte, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return ErrMiss
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) put(bucket []byte, key string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}
