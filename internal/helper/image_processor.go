package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "github.com/mat/besticon/ico"
)

const (
	// Catalog card size the web-app renders; matches the stored images.
	ItemImageWidth  = 540
	ItemImageHeight = 600

	ThumbWidth  = 270
	ThumbHeight = 300

	ThumbTargetKB         = 100
	MaxDecompressedSizeMB = 50
	MaxDecompressedSize   = MaxDecompressedSizeMB * 1024 * 1024
)

// ProcessItemImage validates an uploaded catalog photo and returns it
// cover-cropped to 540x600 and encoded as PNG.
func ProcessItemImage(file multipart.File, fileHeader *multipart.FileHeader) ([]byte, error) {
	if err := ValidateImageContent(file); err != nil {
		return nil, err
	}

	img, err := decodeImage(file, fileHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if err := ValidateDecompressedSize(img); err != nil {
		return nil, err
	}

	resized := imaging.Fill(img, ItemImageWidth, ItemImageHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ProcessItemThumbnail builds a small WebP preview from an already decoded
// catalog image, stepping the quality down until it fits the size target.
func ProcessItemThumbnail(img image.Image) ([]byte, error) {
	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)

	qualities := []float32{85, 75, 60, 50, 40}
	for _, quality := range qualities {
		var buf bytes.Buffer
		if err := webp.Encode(&buf, thumb, &webp.Options{
			Lossless: false,
			Quality:  quality,
		}); err != nil {
			return nil, fmt.Errorf("failed to encode WebP: %w", err)
		}
		if buf.Len() <= ThumbTargetKB*1024 {
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("unable to compress thumbnail to %dKB", ThumbTargetKB)
}

// DecodeItemImage exposes the decode step for callers that also need a
// thumbnail from the same upload.
func DecodeItemImage(file multipart.File, fileHeader *multipart.FileHeader) (image.Image, error) {
	return decodeImage(file, fileHeader)
}

// ValidateImageContent performs deep validation on an uploaded file.
func ValidateImageContent(file multipart.File) error {
	buffer := make([]byte, 8192)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if DetectMaliciousContent(buffer[:n]) {
		return errors.New("malicious content detected in file")
	}

	return nil
}

// DetectMaliciousContent scans for embedded scripts in what should be a
// plain image.
func DetectMaliciousContent(data []byte) bool {
	content := strings.ToLower(string(data))

	maliciousPatterns := []string{
		"<?php",
		"<script",
		"eval(",
		"base64_decode",
		"system(",
		"exec(",
		"shell_exec",
		"passthru",
		"<iframe",
		"javascript:",
		"onerror=",
		"onload=",
	}

	for _, pattern := range maliciousPatterns {
		if strings.Contains(content, pattern) {
			return true
		}
	}

	return false
}

// ValidateDecompressedSize prevents decompression bomb uploads.
func ValidateDecompressedSize(img image.Image) error {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()

	// RGBA = 4 bytes per pixel
	decompressedSize := pixels * 4

	if decompressedSize > MaxDecompressedSize {
		return fmt.Errorf("decompression bomb detected: image too large when decompressed (%d MB)", decompressedSize/(1024*1024))
	}

	return nil
}

func decodeImage(file multipart.File, fileHeader *multipart.FileHeader) (image.Image, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	contentType := fileHeader.Header.Get("Content-Type")

	switch contentType {
	case "image/jpeg":
		return jpeg.Decode(file)
	case "image/png":
		return png.Decode(file)
	case "image/webp":
		return webp.Decode(file)
	default:
		// Generic decode covers everything with a registered driver,
		// including ICO via the besticon import.
		img, _, err := image.Decode(file)
		if err != nil {
			return nil, errors.New("unsupported image format or corrupted file")
		}
		return img, nil
	}
}
