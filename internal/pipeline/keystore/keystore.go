package keystore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
)

var (
	ErrKeyStore apperrors.Error = apperrors.New("key store error").SetStatusCode(http.StatusInternalServerError)
)

// vendor keys are AES-256 symmetric keys
const keySize = 32

// Key is an opaque handle to a vendor's symmetric key. The raw material
// never leaves this package; consumers seal and open through the handle.
type Key struct {
	vendorID string
	material []byte
}

func (k *Key) VendorID() string {
	return k.vendorID
}

// Seal encrypts plaintext under this vendor's key with AES-256-GCM.
// Output layout: [nonce|ciphertext]. GCM authenticates, so tampering is
// detected on Open.
func (k *Key) Seal(plaintext []byte) ([]byte, apperrors.Error) {
	aesgcm, apperr := k.aead()
	if apperr != nil {
		return nil, apperr
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, ErrKeyStore.MsgErr("unable to generate nonce", err)
	}
	return append(nonce, aesgcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open decrypts and authenticates a blob produced by Seal. Fails for any
// other vendor's ciphertext.
func (k *Key) Open(blob []byte) ([]byte, apperrors.Error) {
	aesgcm, apperr := k.aead()
	if apperr != nil {
		return nil, apperr
	}
	if len(blob) < aesgcm.NonceSize() {
		return nil, ErrKeyStore.New("ciphertext too short")
	}
	nonce := blob[:aesgcm.NonceSize()]
	plaintext, err := aesgcm.Open(nil, nonce, blob[aesgcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrKeyStore.MsgErr("unable to decrypt package", err)
	}
	return plaintext, nil
}

func (k *Key) aead() (cipher.AEAD, apperrors.Error) {
	block, err := aes.NewCipher(k.material)
	if err != nil {
		return nil, ErrKeyStore.MsgErr("unable to initialize cipher", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrKeyStore.MsgErr("unable to initialize cipher", err)
	}
	return aesgcm, nil
}

// Store has exclusive custody of per-vendor symmetric keys. Keys are
// generated lazily on first use, persisted wrapped under the configured
// password, and reused across runs. Rotation is manual: delete the key
// file.
type Store struct {
	dir    string
	passwd string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache map[string]*Key
}

func New(dir, passwd string) *Store {
	return &Store{
		dir:    dir,
		passwd: passwd,
		locks:  make(map[string]*sync.Mutex),
		cache:  make(map[string]*Key),
	}
}

// GetOrCreateKey returns the persisted key for vendorID, minting and
// persisting a new one on first use. At most one key is ever minted per
// vendor id: the check-then-create sequence runs under a per-vendor
// lock, so concurrent first use observes a single key.
func (s *Store) GetOrCreateKey(ctx context.Context, vendorID string) (*Key, apperrors.Error) {
	if vendorID == "" {
		return nil, ErrKeyStore.New("missing vendor id")
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	cached, ok := s.cache[vendorID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	keyPath := filepath.Join(s.dir, vendorID+".key")
	blob, err := os.ReadFile(keyPath)
	if err == nil {
		material, err := unwrapKey(blob, s.passwd)
		if err != nil {
			return nil, ErrKeyStore.MsgErr("unable to unwrap key for "+vendorID, err)
		}
		return s.remember(vendorID, material), nil
	}
	if !os.IsNotExist(err) {
		return nil, ErrKeyStore.MsgErr("unable to read key for "+vendorID, err)
	}

	material := make([]byte, keySize)
	if _, err := rand.Read(material); err != nil {
		return nil, ErrKeyStore.MsgErr("unable to generate key", err)
	}
	wrapped, err := wrapKey(material, s.passwd)
	if err != nil {
		return nil, ErrKeyStore.MsgErr("unable to wrap key", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, ErrKeyStore.MsgErr("unable to create key directory", err)
	}
	if err := os.WriteFile(keyPath, wrapped, 0o600); err != nil {
		return nil, ErrKeyStore.MsgErr("unable to persist key for "+vendorID, err)
	}

	log.Ctx(ctx).Info().Str("vendor_id", vendorID).Msg("generated new vendor key")
	return s.remember(vendorID, material), nil
}

func (s *Store) vendorLock(vendorID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[vendorID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[vendorID] = lock
	}
	return lock
}

func (s *Store) remember(vendorID string, material []byte) *Key {
	key := &Key{vendorID: vendorID, material: material}
	s.mu.Lock()
	s.cache[vendorID] = key
	s.mu.Unlock()
	return key
}
