package certificates

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"

	"parish-backend/internal/apperr"
	"parish-backend/internal/models"
)

// Letterhead identifies the issuing parish.
type Letterhead struct {
	Diocese     string
	ParishName  string
	Location    string
	PriestName  string // signatory when the record names no officiant
	PriestTitle string
	Logo        template.URL // data URI, optional
}

// Document is a certificate ready for the renderer.
type Document struct {
	Title    string
	HTML     string
	FileName string
}

// LoadLogo reads an image file into a data URI. An empty path yields "".
func LoadLogo(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	mime := http.DetectContentType(raw)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)), nil
}

type common struct {
	Letterhead
	Title       string
	Priest      string
	IssueDay    string
	IssueMonth  string
	Book        string
	Page        string
	Line        string
	Place       string // where the sacrament took place
	ParishBlock string // "PARISH, LOCATION"
}

type baptismData struct {
	common
	Child        string
	Father       string
	Mother       string
	BirthDate    string
	BirthPlace   string
	BaptismDay   string
	BaptismMonth string
	Sponsors     string
}

type confirmationData struct {
	common
	Name             string
	Father           string
	Mother           string
	BirthDate        string
	BaptismDate      string
	BaptismPlace     string
	ConfirmationDate string
	IssueDate        string
	Sponsors         string
}

type marriageData struct {
	common
	GroomName        string
	GroomAge         string
	GroomNationality string
	GroomResidence   string
	GroomFather      string
	GroomMother      string
	BrideName        string
	BrideAge         string
	BrideNationality string
	BrideResidence   string
	BrideFather      string
	BrideMother      string
	MarriageDate     string
	IssueDate        string
	Witnesses        string
}

type funeralData struct {
	common
	Name         string
	Residence    string
	DateOfDeath  string
	CauseOfDeath string
	BurialDay    string
	BurialMonth  string
	BurialPlace  string
}

// Build fills the template for the record's sacrament type.
func Build(record *models.SacramentRecord, cert *models.IssuedCertificate, lh Letterhead) (*Document, error) {
	c := newCommon(record, cert, lh)

	var (
		tmpl *template.Template
		data any
		name = record.Name
	)
	switch record.Type {
	case models.SacramentBaptism:
		c.Title = "Certificate of Baptism"
		tmpl, data = baptismTemplate, baptismFields(record, c)
	case models.SacramentConfirmation:
		c.Title = "Certificate of Confirmation"
		tmpl, data = confirmationTemplate, confirmationFields(record, cert, c)
	case models.SacramentMarriage:
		c.Title = "Certificate of Marriage"
		tmpl, data = marriageTemplate, marriageFields(record, cert, c)
		if g, b := models.Deref(record.GroomName), models.Deref(record.BrideName); g != "" && b != "" {
			name = g + " & " + b
		}
	case models.SacramentFuneral:
		c.Title = "Certificate of Burial"
		tmpl, data = funeralTemplate, funeralFields(record, c)
	default:
		return nil, apperr.ErrNoGenerator
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", strings.ToLower(string(record.Type)), err)
	}
	return &Document{
		Title:    c.Title,
		HTML:     buf.String(),
		FileName: FileName(string(record.Type), name),
	}, nil
}

func newCommon(record *models.SacramentRecord, cert *models.IssuedCertificate, lh Letterhead) common {
	priest := firstNonEmpty(record.Officiant, lh.PriestName, cert.IssuedBy, "Parish Priest")
	if lh.PriestTitle == "" {
		lh.PriestTitle = "Parish Priest"
	}
	issued := cert.DateIssued
	return common{
		Letterhead:  lh,
		Priest:      priest,
		IssueDay:    OrdinalDay(&issued),
		IssueMonth:  MonthYear(&issued),
		Book:        Register(models.Deref(record.RegisterBook)),
		Page:        Register(models.Deref(record.RegisterPage)),
		Line:        Register(models.Deref(record.RegisterLine)),
		ParishBlock: lh.ParishName + ", " + lh.Location,
	}
}

func baptismFields(r *models.SacramentRecord, c common) baptismData {
	date := r.Date
	c.Place = Upper(firstNonEmpty(models.Deref(r.BaptismPlace), c.ParishBlock))
	return baptismData{
		common:       c,
		Child:        Upper(r.Name),
		Father:       Upper(models.Deref(r.FatherName)),
		Mother:       Upper(models.Deref(r.MotherName)),
		BirthDate:    FullDate(r.BirthDate),
		BirthPlace:   Upper(models.Deref(r.BirthPlace)),
		BaptismDay:   OrdinalDay(&date),
		BaptismMonth: MonthYear(&date),
		Sponsors:     Upper(models.Deref(r.Sponsors)),
	}
}

func confirmationFields(r *models.SacramentRecord, cert *models.IssuedCertificate, c common) confirmationData {
	date, issued := r.Date, cert.DateIssued
	c.Place = Upper(c.ParishBlock)
	return confirmationData{
		common:           c,
		Name:             Upper(r.Name),
		Father:           Upper(models.Deref(r.FatherName)),
		Mother:           Upper(models.Deref(r.MotherName)),
		BirthDate:        ShortDate(r.BirthDate),
		BaptismDate:      ShortDate(r.BaptismDate),
		BaptismPlace:     Upper(models.Deref(r.BaptismPlace)),
		ConfirmationDate: ShortDate(&date),
		IssueDate:        ShortDate(&issued),
		Sponsors:         Upper(models.Deref(r.Sponsors)),
	}
}

// Marriage entries keep the casing they were registered with.
func marriageFields(r *models.SacramentRecord, cert *models.IssuedCertificate, c common) marriageData {
	date, issued := r.Date, cert.DateIssued
	c.Place = c.ParishBlock
	return marriageData{
		common:           c,
		GroomName:        models.Deref(r.GroomName),
		GroomAge:         models.Deref(r.GroomAge),
		GroomNationality: models.Deref(r.GroomNationality),
		GroomResidence:   models.Deref(r.GroomResidence),
		GroomFather:      models.Deref(r.GroomFatherName),
		GroomMother:      models.Deref(r.GroomMotherName),
		BrideName:        models.Deref(r.BrideName),
		BrideAge:         models.Deref(r.BrideAge),
		BrideNationality: models.Deref(r.BrideNationality),
		BrideResidence:   models.Deref(r.BrideResidence),
		BrideFather:      models.Deref(r.BrideFatherName),
		BrideMother:      models.Deref(r.BrideMotherName),
		MarriageDate:     LongOrdinalDate(&date),
		IssueDate:        LongOrdinalDate(&issued),
		Witnesses:        models.Deref(r.Sponsors),
	}
}

func funeralFields(r *models.SacramentRecord, c common) funeralData {
	date := r.Date
	c.Place = Upper(firstNonEmpty(models.Deref(r.PlaceOfBurial), c.ParishBlock))
	return funeralData{
		common:       c,
		Name:         Upper(r.Name),
		Residence:    Upper(models.Deref(r.Residence)),
		DateOfDeath:  FullDate(r.DateOfDeath),
		CauseOfDeath: Upper(models.Deref(r.CauseOfDeath)),
		BurialDay:    OrdinalDay(&date),
		BurialMonth:  MonthYear(&date),
		BurialPlace:  c.Place,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
}

const header = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body>
<div class="center">{{if .Logo}}<img src="{{.Logo}}" alt="Logo">{{end}}</div>
<p class="center">{{.Diocese}}</p>
<h3 class="center">{{upper .ParishName}}</h3>
<p class="center">{{.Location}}</p>
<h1 class="title">{{.Title}}</h1>
{{end}}`

const footer = `{{define "footer"}}
<div class="signature">
<p class="center"><b>{{upper .Priest}}</b></p>
<p class="center">{{.PriestTitle}}</p>
</div>
</body>
</html>{{end}}`

var (
	baptismTemplate = mustParse("baptism", `{{template "header" .}}
<p class="field">CHILD: <b>{{.Child}}</b></p>
<p class="field">FATHER: <b>{{.Father}}</b></p>
<p class="field">MOTHER: <b>{{.Mother}}</b></p>
<p class="field">DATE OF BIRTH: <b>{{.BirthDate}}</b></p>
<p class="field">PLACE OF BIRTH: <b>{{.BirthPlace}}</b></p>
<p class="center"><i>was solemnly baptized according to the Rites of the Roman Catholic Church</i></p>
<p>on the <b>{{.BaptismDay}}</b> day of <b>{{.BaptismMonth}}</b> at the <b>{{.Place}}</b>, by the <b>{{upper .Priest}}</b>, the sponsors <b>{{.Sponsors}}</b> as it appears in the Baptismal Register Book No. {{.Book}}, page {{.Page}}, line no. {{.Line}}</p>
<p>Given this <b>{{.IssueDay}}</b> day of <b>{{.IssueMonth}}</b> at the Quasi-Parish Office of {{.ParishName}}, {{.Location}}.</p>
{{template "footer" .}}`)

	confirmationTemplate = mustParse("confirmation", `{{template "header" .}}
<p class="field">NAME: <b>{{.Name}}</b></p>
<p class="field">FATHER: <b>{{.Father}}</b></p>
<p class="field">MOTHER: <b>{{.Mother}}</b></p>
<p class="field">DATE OF BIRTH: <b>{{.BirthDate}}</b></p>
<p class="field">BAPTIZED: <b>{{.BaptismDate}}</b>{{if .BaptismPlace}} at <b>{{.BaptismPlace}}</b>{{end}}</p>
<p class="center"><i>received the Sacrament of Confirmation according to the Rites of the Roman Catholic Church</i></p>
<p>on <b>{{.ConfirmationDate}}</b> at the <b>{{.Place}}</b>, by the <b>{{upper .Priest}}</b>, the sponsors <b>{{.Sponsors}}</b> as it appears in the Confirmation Register Book No. {{.Book}}, page {{.Page}}, line no. {{.Line}}</p>
<p>Given this <b>{{.IssueDate}}</b> at the Quasi-Parish Office of {{.ParishName}}, {{.Location}}.</p>
{{template "footer" .}}`)

	marriageTemplate = mustParse("marriage", `{{template "header" .}}
<p>This is to certify that</p>
<p class="field"><b>{{.GroomName}}</b>{{if .GroomAge}}, {{.GroomAge}} years old{{end}}{{if .GroomNationality}}, {{.GroomNationality}}{{end}}{{if .GroomResidence}}, residing at {{.GroomResidence}}{{end}}{{if or .GroomFather .GroomMother}}, son of {{.GroomFather}} and {{.GroomMother}}{{end}}</p>
<p class="center">and</p>
<p class="field"><b>{{.BrideName}}</b>{{if .BrideAge}}, {{.BrideAge}} years old{{end}}{{if .BrideNationality}}, {{.BrideNationality}}{{end}}{{if .BrideResidence}}, residing at {{.BrideResidence}}{{end}}{{if or .BrideFather .BrideMother}}, daughter of {{.BrideFather}} and {{.BrideMother}}{{end}}</p>
<p class="center"><i>were united in Holy Matrimony according to the Rites of the Roman Catholic Church</i></p>
<p>on the <b>{{.MarriageDate}}</b> at the {{.Place}}, by {{.Priest}}{{if .Witnesses}}, in the presence of the witnesses {{.Witnesses}}{{end}}, as it appears in the Marriage Register Book No. {{.Book}}, page {{.Page}}, line no. {{.Line}}</p>
<p>Given this <b>{{.IssueDate}}</b> at the Quasi-Parish Office of {{.ParishName}}, {{.Location}}.</p>
{{template "footer" .}}`)

	funeralTemplate = mustParse("funeral", `{{template "header" .}}
<p class="field">NAME: <b>{{.Name}}</b></p>
<p class="field">RESIDENCE: <b>{{.Residence}}</b></p>
<p class="field">DATE OF DEATH: <b>{{.DateOfDeath}}</b></p>
<p class="field">CAUSE OF DEATH: <b>{{.CauseOfDeath}}</b></p>
<p class="center"><i>was given Christian burial according to the Rites of the Roman Catholic Church</i></p>
<p>on the <b>{{.BurialDay}}</b> day of <b>{{.BurialMonth}}</b> at the <b>{{.BurialPlace}}</b>, by the <b>{{upper .Priest}}</b>, as it appears in the Burial Register Book No. {{.Book}}, page {{.Page}}, line no. {{.Line}}</p>
<p>Given this <b>{{.IssueDay}}</b> day of <b>{{.IssueMonth}}</b> at the Quasi-Parish Office of {{.ParishName}}, {{.Location}}.</p>
{{template "footer" .}}`)
)

func mustParse(name, body string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(header))
	t = template.Must(t.Parse(footer))
	return template.Must(t.Parse(body))
}
