package snapshot

import (
	"encoding/hex"
	"fmt"

	mt "github.com/txaty/go-merkletree"

	"dirwatch/internal/hash"
)

type leaf []byte

func (l leaf) Serialize() ([]byte, error) {
	return l, nil
}

// Digest returns a merkle root over the snapshot's (path, mtime) pairs in
// path order. Two snapshots have equal digests iff they track the same
// files with the same modification times.
func (s *Snapshot) Digest() (string, error) {
	paths := s.Paths()

	// go-merkletree needs at least two blocks
	switch len(paths) {
	case 0:
		root, err := hash.XXHashFunc([]byte("empty-tree"))
		if err != nil {
			return "", fmt.Errorf("failed to create empty tree hash: %w", err)
		}
		return hex.EncodeToString(root), nil
	case 1:
		root, err := hash.XXHashFunc(s.leaf(paths[0]))
		if err != nil {
			return "", fmt.Errorf("failed to hash leaf: %w", err)
		}
		return hex.EncodeToString(root), nil
	}

	blocks := make([]mt.DataBlock, 0, len(paths))
	for _, path := range paths {
		blocks = append(blocks, s.leaf(path))
	}

	tree, err := mt.New(&mt.Config{HashFunc: hash.XXHashFunc}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}

	return hex.EncodeToString(tree.Root), nil
}

func (s *Snapshot) leaf(path string) leaf {
	return hash.Leaf(path, s.files[path].UnixNano())
}
