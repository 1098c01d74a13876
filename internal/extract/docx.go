package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

type docxTable struct {
	rows [][]string
}

// extractDOCX 依次输出正文段落（每段一行），再输出表格（同一行单元格以空格连接，每行换行）。
func extractDOCX(path string) (text string, err error) {
	defer recoverParser(&err, "docx")

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("docx archive has no " + docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, tables, err := parseDocumentXML(rc)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range paragraphs {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	for _, tbl := range tables {
		for _, row := range tbl.rows {
			for _, cell := range row {
				if cell == "" {
					continue
				}
				sb.WriteString(cell)
				sb.WriteByte(' ')
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// parseDocumentXML 流式遍历 document.xml。
// 嵌套表格的内容归入最外层单元格。
func parseDocumentXML(r io.Reader) (paragraphs []string, tables []docxTable, err error) {
	dec := xml.NewDecoder(r)

	var (
		tblDepth int
		inText   bool
		para     strings.Builder
		cell     []string
		row      []string
		current  *docxTable
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", docxBodyPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					current = &docxTable{}
				}
			case "tr":
				if tblDepth == 1 {
					row = nil
				}
			case "tc":
				if tblDepth == 1 {
					cell = nil
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				para.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				text := para.String()
				if tblDepth == 0 {
					if text != "" {
						paragraphs = append(paragraphs, text)
					}
				} else {
					cell = append(cell, text)
				}
				para.Reset()
			case "tc":
				if tblDepth == 1 {
					row = append(row, strings.Join(cell, "\n"))
				}
			case "tr":
				if tblDepth == 1 && current != nil {
					current.rows = append(current.rows, row)
				}
			case "tbl":
				if tblDepth == 1 && current != nil {
					tables = append(tables, *current)
					current = nil
				}
				if tblDepth > 0 {
					tblDepth--
				}
			}
		}
	}

	return paragraphs, tables, nil
}
