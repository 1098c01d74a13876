package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected 表示扫描发现恶意内容。
var ErrInfected = errors.New("malicious file detected")

// Scanner 在保存上传文件前扫描内容。
type Scanner interface {
	Scan(r io.Reader) error
}

// ClamdScanner 通过 clamd 的 INSTREAM 扫描文件。
type ClamdScanner struct {
	addr string
}

// NewClamdScanner 创建扫描器，addr 形如 tcp://clamav:3310。
func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{addr: addr}
}

// Scan 返回 nil 表示干净，ErrInfected 表示命中病毒特征。
func (s *ClamdScanner) Scan(r io.Reader) error {
	client := clamd.NewClamd(s.addr)

	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := client.ScanStream(r, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for result := range scanChan {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return fmt.Errorf("%w: %s", ErrInfected, result.Description)
		default:
			return fmt.Errorf("clamd %s: %s", result.Status, result.Description)
		}
	}
	return nil
}
