package filestorage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/andrewyi/blogsync/src/recordstore"
	"github.com/andrewyi/blogsync/src/util"
)

type SimpleFileStorage struct {
	mu       sync.Mutex
	location string
}

func NewSimpleFileStorage(location string) (FileStorage, error) {
	if err := ensureDir(location); err != nil {
		return nil, err
	}
	return &SimpleFileStorage{
		location: location,
	}, nil
}

func (s *SimpleFileStorage) Path(d recordstore.Dataset) string {
	return filepath.Join(s.location, string(d)+".csv")
}

func (s *SimpleFileStorage) Close() error {
	return nil
}

func (s *SimpleFileStorage) ReadAll(d recordstore.Dataset) ([]recordstore.Row, error) {
	columns, err := d.Columns()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path(d))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", recordstore.ErrDatasetNotExist, d)
		}
		return nil, err
	}
	defer f.Close()

	return readRows(f, columns)
}

// AppendRows 文件不存在时先写入列名
func (s *SimpleFileStorage) AppendRows(d recordstore.Dataset, rows []recordstore.Row) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := recordstore.CheckRow(d, row); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fp := s.Path(d)
	writeHeader := false
	info, err := os.Stat(fp)
	switch {
	case os.IsNotExist(err):
		writeHeader = true
	case err != nil:
		return err
	case info.Size() == 0:
		writeHeader = true
	default:
		if err := checkHeader(fp, columns); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(columns); err != nil {
			f.Close()
			return err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OverwriteAll 先写临时文件再rename，失败时原文件保持不变
func (s *SimpleFileStorage) OverwriteAll(d recordstore.Dataset, rows []recordstore.Row) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := recordstore.CheckRow(d, row); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := ioutil.TempFile(s.location, "."+string(d)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		return cleanup(err)
	}
	if err := w.WriteAll(toRecords(rows)); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.Path(d)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func readRows(r io.Reader, columns []string) ([]recordstore.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(columns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil // 空文件
	}
	if err != nil {
		return nil, corrupt(err)
	}
	if !util.StringSliceEqual(header, columns) {
		return nil, fmt.Errorf("%w: header %v", recordstore.ErrCorruptRow, header)
	}

	var rows []recordstore.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, corrupt(err)
		}
		rows = append(rows, recordstore.Row(record))
	}
	return rows, nil
}

func checkHeader(fp string, columns []string) error {
	f, err := os.Open(fp)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return corrupt(err)
	}
	if !util.StringSliceEqual(header, columns) {
		return fmt.Errorf("%w: header %v", recordstore.ErrCorruptRow, header)
	}
	return nil
}

func corrupt(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", recordstore.ErrCorruptRow, err)
	}
	return err
}

func toRecords(rows []recordstore.Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row)
	}
	return records
}

func ensureDir(dir string) error {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}
