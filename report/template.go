package report

import (
	"archive/zip"
	"bytes"
	"fmt"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/></Relationships>`

	wordNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

	headerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr ` + wordNamespaces + `><w:p><w:r><w:t xml:space="preserve">School Year [Insert SY], [Insert SEM]</w:t></w:r></w:p></w:hdr>`

	documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + wordNamespaces + `><w:body>` +
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>REPORT OF GRADES</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Subject: [Insert SN] [Insert SC] [Insert ST]</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Units: [Insert CREDIT]   Faculty: [Insert Faculty]</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Lecture: [Insert LeS]   Laboratory: [Insert LaS]</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Students: [Insert STUDENT_COUNT]   Date: [Insert Time]</w:t></w:r></w:p>` +
		`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>` +
		`<w:tr>` + headerCells + `</w:tr>` +
		`<w:tr>` + blankCells + `</w:tr>` +
		`</w:tbl>` +
		`<w:sectPr><w:headerReference w:type="default" r:id="rId1"/></w:sectPr>` +
		`</w:body></w:document>`

	headerCells = `<w:tc><w:p><w:r><w:t>No.</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Grade</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p/></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Remarks</w:t></w:r></w:p></w:tc>`

	blankCells = `<w:tc><w:tcPr><w:tcW w:w="600" w:type="dxa"/></w:tcPr><w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p></w:tc>` +
		`<w:tc><w:p/></w:tc><w:tc><w:p/></w:tc><w:tc><w:p/></w:tc><w:tc><w:p/></w:tc>`
)

// BlankTemplate builds a plain report template carrying the standard
// placeholders and an empty roster table. It stands in when no template file
// is configured.
func BlankTemplate() ([]byte, error) {
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML},
		{"word/header1.xml", headerXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish template: %w", err)
	}
	return buf.Bytes(), nil
}
