package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore keeps named keys on the local filesystem:
//
//	<Directory>/<name>/identity.key    tagged private key (hex)
//	<Directory>/<name>/identity.pub    tagged public key (hex)
//	<Directory>/<name>/symmetric.key   tagged symmetric key (hex)
//
// Private and symmetric key files are created 0600.
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Name string
	// Kinds lists what the entry holds: "identity", "symmetric".
	Kinds []string
}

const (
	identityFile  = "identity.key"
	publicFile    = "identity.pub"
	symmetricFile = "symmetric.key"
)

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "chunk-keys"), nil
}

// CreateKeyStore opens the store at directory, or the default directory
// when it is empty. Nothing is created until a key is saved.
func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func CheckKeyName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

func (ks *KeyStore) path(name, file string) (string, error) {
	if err := CheckKeyName(name); err != nil {
		return "", err
	}
	return filepath.Join(ks.Directory, name, file), nil
}

// SaveIdentity stores id's private and public keys under name.
func (ks *KeyStore) SaveIdentity(name string, id Identity, overwrite bool) error {
	priv, err := ks.path(name, identityFile)
	if err != nil {
		return err
	}
	pub, _ := ks.path(name, publicFile)
	if err := writeHexFile(priv, id.SignKey(), 0o600, overwrite); err != nil {
		return err
	}
	return writeHexFile(pub, id.SignatureCheckKey(), 0o644, overwrite)
}

// SaveSymmetric stores c's key under name.
func (ks *KeyStore) SaveSymmetric(name string, c Cryptor, overwrite bool) error {
	p, err := ks.path(name, symmetricFile)
	if err != nil {
		return err
	}
	return writeHexFile(p, c.EncryptionKey(), 0o600, overwrite)
}

// LoadIdentity rebuilds the identity stored under name through f.
func (ks *KeyStore) LoadIdentity(f *Factory, name string) (Identity, error) {
	raw, err := ks.read(name, identityFile)
	if err != nil {
		return nil, err
	}
	return f.IdentityFromKey(raw)
}

// LoadChecker rebuilds the public half stored under name through f.
func (ks *KeyStore) LoadChecker(f *Factory, name string) (SignatureChecker, error) {
	raw, err := ks.read(name, publicFile)
	if err != nil {
		return nil, err
	}
	return f.CheckerFromKey(raw)
}

// LoadCryptor rebuilds the symmetric cryptor stored under name through f.
func (ks *KeyStore) LoadCryptor(f *Factory, name string) (Cryptor, error) {
	raw, err := ks.read(name, symmetricFile)
	if err != nil {
		return nil, err
	}
	return f.CryptorFromKey(raw)
}

func (ks *KeyStore) read(name, file string) ([]byte, error) {
	p, err := ks.path(name, file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimSpace(string(data)))
}

func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && CheckKeyName(entry.Name()) == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		e := KeyEntry{Name: name}
		if _, err := os.Stat(filepath.Join(ks.Directory, name, identityFile)); err == nil {
			e.Kinds = append(e.Kinds, "identity")
		}
		if _, err := os.Stat(filepath.Join(ks.Directory, name, symmetricFile)); err == nil {
			e.Kinds = append(e.Kinds, "symmetric")
		}
		if len(e.Kinds) > 0 {
			result = append(result, e)
		}
	}
	return result, nil
}

func writeHexFile(filePath string, b []byte, perm os.FileMode, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, perm)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hex.EncodeToString(b) + "\n"); err != nil {
		return err
	}
	return file.Close()
}
