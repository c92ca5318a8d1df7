package r2

import (
	"crypto/sha1"
	"encoding/base32"
	"fmt"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"time"
)

// ObjectKey builds a collision-resistant blob name:
// {prefix}/{baseName}-{sizeLabel?}-{timestamp}-{randomId}.{ext}.
// baseName is the upload's file name without extension; sizeLabel is empty
// for the primary rendition.
func ObjectKey(prefix, fileName, sizeLabel, ext string) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if base == "" {
		base = "image"
	}

	parts := []string{base}
	if sizeLabel != "" {
		parts = append(parts, sizeLabel)
	}
	parts = append(parts,
		strconv.FormatInt(time.Now().UnixMilli(), 10),
		randomID(),
	)

	if prefix == "" {
		prefix = "blog"
	}
	return fmt.Sprintf("%s/%s.%s", prefix, strings.Join(parts, "-"), ext)
}

// randomID returns a short URL-safe token. Time plus a random draw is hashed
// so concurrent uploads of the same file name cannot collide in practice.
func randomID() string {
	seed := strconv.FormatInt(time.Now().UnixNano(), 10) + strconv.Itoa(rand.Intn(1<<16))
	sum := sha1.Sum([]byte(seed))
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:5]))
}
