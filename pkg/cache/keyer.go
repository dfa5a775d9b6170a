package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every option that changes rendered bytes.
type ArtifactKeyOpts struct {
	Format             string  `json:"format"`
	VizType            string  `json:"viz_type"`
	Width              float64 `json:"width"`
	HeightMultiplier   float64 `json:"height_multiplier"`
	HeightOffset       int     `json:"height_offset"`
	MinHeight          float64 `json:"min_height"`
	NodeWidth          float64 `json:"node_width"`
	NodePadding        float64 `json:"node_padding"`
	MinThickness       float64 `json:"min_thickness"`
	ThicknessThreshold float64 `json:"thickness_threshold"`
	Align              string  `json:"align"`
	Iterations         int     `json:"iterations"`
	Policy             string  `json:"policy"`
	StyleHash          string  `json:"style_hash"`
	Detailed           bool    `json:"detailed,omitempty"`
	Scale              float64 `json:"scale,omitempty"`
	EmbedFont          bool    `json:"embed_font"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<format>:<sha256>". The digest covers the
// tree hash and the JSON of opts, so field order in opts is part of the key.
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	optsJSON, _ := json.Marshal(opts)
	return "artifact:" + opts.Format + ":" + Hash(append([]byte(treeHash+"\x00"), optsJSON...))
}

// ScopedKeyer prefixes every key of an inner Keyer so deployments sharing a
// Redis or Mongo instance stay apart.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer scopes inner (the default keyer when nil) under prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(treeHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the Hash of v's JSON encoding.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
