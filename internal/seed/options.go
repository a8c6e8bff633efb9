// Package seed fills a database with demo users, posts, likes and comments.
// It is intended for development and testing only.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls how much data a seeding run creates.
type Options struct {
	Users           int      `yaml:"users"`
	PostsPerUser    int      `yaml:"posts_per_user"`
	PrivateRatio    float64  `yaml:"private_ratio"`
	MaxImages       int      `yaml:"max_images"`
	Tags            []string `yaml:"tags"`
	MaxTagsPerPost  int      `yaml:"max_tags_per_post"`
	LikesPerPost    int      `yaml:"likes_per_post"`
	CommentsPerPost int      `yaml:"comments_per_post"`
	Password        string   `yaml:"password"`
	Clean           bool     `yaml:"clean"`
	RandSeed        int64    `yaml:"seed"`
}

// DefaultOptions returns a small, varied data set.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    5,
		PrivateRatio:    0.2,
		MaxImages:       3,
		Tags:            []string{"go", "databases", "devops", "frontend", "career", "travel", "books", "music"},
		MaxTagsPerPost:  3,
		LikesPerPost:    4,
		CommentsPerPost: 3,
		Password:        "password123",
		Clean:           true,
	}
}

// Validate rejects option sets that cannot be seeded.
func (o Options) Validate() error {
	switch {
	case o.Users < 1:
		return errors.New("users must be at least 1")
	case o.PostsPerUser < 0, o.MaxImages < 0, o.MaxTagsPerPost < 0, o.LikesPerPost < 0, o.CommentsPerPost < 0:
		return errors.New("counts must not be negative")
	case o.PrivateRatio < 0 || o.PrivateRatio > 1:
		return errors.New("private_ratio must be between 0 and 1")
	case len(o.Password) < 6:
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// LoadPreset reads a YAML preset. Fields missing from the preset keep their defaults.
func LoadPreset(r io.Reader) (Options, error) {
	opts := DefaultOptions()

	data, err := io.ReadAll(r)
	if err != nil {
		return opts, fmt.Errorf("read preset: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return opts, fmt.Errorf("decode preset: %w", err)
	}
	return opts, opts.Validate()
}

// LoadPresetFile reads a YAML preset from path.
func LoadPresetFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("open preset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadPreset(f)
}
