package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Prefixed ids keep row provenance readable in logs and joins
// (file_..., docs_..., kb_...). Chunks, embeddings and tasks use plain uuids.

func newPrefixedId(prefix string, size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("idgen: %v", err))
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(buf))
}

func NewFileId() string {
	return newPrefixedId("file", 12)
}

func NewDocumentId() string {
	return newPrefixedId("docs", 16)
}

func NewKnowledgeBaseId() string {
	return newPrefixedId("kb", 12)
}
