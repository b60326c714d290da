// Package snapshot 提供「整份覆寫」的檔案讀寫。
//
// 寫入流程：寫入同目錄下的暫存檔 → fsync → rename 取代原檔，
// 中途失敗不會破壞原本的檔案。檔案代號在所有路徑上都會被關閉。
// WriteAll 讓多個檔案一起成功或一起維持原狀。
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rwxr-xr-x (擁有者全開，其他人可讀可執行) - 適用於目錄
	FileModeExecutable fs.FileMode = 0755

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// File 一個待寫入的檔案
type File struct {
	Path   string
	Mode   fs.FileMode
	Encode func(w io.Writer) error
}

// Write 以 encode 產生的內容原子性地覆寫 path
//
// 參數:
//
//	path: 目標檔案
//	mode: 檔案權限
//	encode: 將內容寫入 w
//
// 回傳:
//
//	error: 建立、寫入、刷入硬碟或 rename 的錯誤
func Write(path string, mode fs.FileMode, encode func(w io.Writer) error) error {
	s, err := stage(path, mode, encode)
	if err != nil {
		return err
	}
	defer s.discard()
	return s.commit()
}

// WriteAll 將多個檔案當成一次寫入
//
// 所有檔案都先寫好暫存檔並 fsync，之後才依序 rename。
// 若某個 rename 失敗，先前已取代的檔案會還原成原本的內容
// (原本不存在的則刪除)，回傳的錯誤包含還原時的錯誤。
func WriteAll(files ...File) (err error) {
	var pending []*staged
	defer func() {
		for _, s := range pending {
			s.discard()
		}
	}()

	next := make([]*staged, len(files))
	prev := make([]*staged, len(files))
	for i, f := range files {
		if next[i], err = stage(f.Path, f.Mode, f.Encode); err != nil {
			return err
		}
		pending = append(pending, next[i])
		if prev[i], err = backup(f.Path); err != nil {
			return err
		}
		if prev[i] != nil {
			pending = append(pending, prev[i])
		}
	}

	for i := range files {
		if err = next[i].commit(); err != nil {
			return multierr.Append(err, restore(files[:i], prev[:i]))
		}
	}
	return nil
}

// staged 已寫入並 fsync、尚未 rename 的暫存檔
type staged struct {
	path string
	tmp  string
}

func stage(path string, mode fs.FileMode, encode func(w io.Writer) error) (_ *staged, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, FileModeExecutable); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	// 任何失敗都要關檔並清掉暫存檔
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = encode(tmp); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	// 強制刷入硬碟 (關鍵！)
	if err = tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return nil, fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	return &staged{path: path, tmp: tmp.Name()}, nil
}

func (s *staged) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	s.tmp = ""
	return nil
}

// discard 刪除尚未 commit 的暫存檔
func (s *staged) discard() {
	if s.tmp != "" {
		_ = os.Remove(s.tmp)
		s.tmp = ""
	}
}

// backup 將 path 目前的內容複製成暫存檔；不存在或不是一般檔案時回傳 nil
func backup(path string) (*staged, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return stage(path, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
}

// restore 由後往前還原已取代的檔案
func restore(files []File, prev []*staged) error {
	var errs error
	for i := len(files) - 1; i >= 0; i-- {
		if prev[i] != nil {
			errs = multierr.Append(errs, prev[i].commit())
			continue
		}
		if err := os.Remove(files[i].Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Read 開啟 path 並交給 decode 讀取
//
// 回傳:
//
//	found: 檔案是否存在
//	error: 開檔 (不含不存在) 或 decode 的錯誤
func Read(path string, decode func(r io.Reader) error) (found bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := decode(f); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
