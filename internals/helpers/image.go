package helper

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const photoMaxDimension = 512

// SavePhotoWebp menormalkan foto upload (jpg/jpeg/png/webp) menjadi webp
// maksimal 512px sisi terpanjang, lalu menyimpannya di bawah uploadDir.
// Mengembalikan path publik relatif (/uploads/...).
func SavePhotoWebp(uploadDir, folder string, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("%w: format %s tidak didukung (jpg, jpeg, png, webp)", ErrInvalidArgument, ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file gambar: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: file gambar tidak valid", ErrInvalidArgument)
	}
	img = imaging.Fit(img, photoMaxDimension, photoMaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return "", fmt.Errorf("gagal konversi ke webp: %w", err)
	}

	dir := filepath.Join(uploadDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("gagal membuat direktori upload: %w", err)
	}

	name := fmt.Sprintf("%s-%s.webp", time.Now().Format("20060102"), uuid.New().String())
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("gagal menyimpan foto: %w", err)
	}

	return "/uploads/" + folder + "/" + name, nil
}

// DeletePhoto menghapus file foto berdasarkan path publik /uploads/...;
// file yang sudah tidak ada dianggap sukses.
func DeletePhoto(uploadDir, publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok {
		return fmt.Errorf("%w: path foto tidak valid", ErrInvalidArgument)
	}
	err := os.Remove(filepath.Join(uploadDir, filepath.Clean(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
