// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/imaging"
	"github.com/olegiv/hanmaru/internal/model"
)

// Upload errors. Both carry the validation message key shown to the user.
var (
	ErrFileTooLarge = errors.New(model.MsgImageTooLarge)
	ErrNotImage     = errors.New(model.MsgImageType)
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, creds apiclient.Credentials, img apiclient.Upload) (string, error)
}

// UploadService prepares browser uploads and forwards them to the API.
type UploadService struct {
	api       Uploader
	processor *imaging.Processor
	maxBytes  int64
}

// NewUploadService creates an upload service. maxBytes <= 0 means the
// profile picture limit.
func NewUploadService(api Uploader, processor *imaging.Processor, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = model.MaxImageBytes
	}
	if processor == nil {
		processor = imaging.NewProcessor(imaging.DefaultMaxDimension, imaging.DefaultQuality)
	}
	return &UploadService{api: api, processor: processor, maxBytes: maxBytes}
}

// MaxBytes returns the upload size limit.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Prepare reads file, checks that it is an image within the size limit and
// normalizes it. The returned upload has a fresh random name.
func (s *UploadService) Prepare(file multipart.File, header *multipart.FileHeader) (apiclient.Upload, error) {
	if header.Size > s.maxBytes {
		return apiclient.Upload{}, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return apiclient.Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return apiclient.Upload{}, ErrFileTooLarge
	}

	if _, ok := imaging.Sniff(data); !ok {
		return apiclient.Upload{}, ErrNotImage
	}

	res, err := s.processor.Normalize(data, uuid.NewString()+filepath.Ext(sanitizeFilename(header.Filename)))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return apiclient.Upload{}, ErrNotImage
		}
		return apiclient.Upload{}, fmt.Errorf("failed to process image: %w", err)
	}

	return apiclient.Upload{
		Filename:    res.Filename,
		ContentType: res.MimeType,
		Data:        res.Data,
	}, nil
}

// UploadImage prepares file and stores it through the API.
func (s *UploadService) UploadImage(ctx context.Context, creds apiclient.Credentials, file multipart.File, header *multipart.FileHeader) (string, error) {
	img, err := s.Prepare(file, header)
	if err != nil {
		return "", err
	}
	url, err := s.api.UploadImage(ctx, creds, img)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return url, nil
}

// IsUploadError reports whether err is a user-facing upload rejection.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrNotImage)
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}
	return filename
}
