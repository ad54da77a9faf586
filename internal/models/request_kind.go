package models

import "strings"

// RequestKind is the sub-type of a service request, derived once from its
// category and free-text service type when the request is submitted.
type RequestKind string

const (
	KindBaptism                 RequestKind = "BAPTISM"
	KindConfirmation            RequestKind = "CONFIRMATION"
	KindMarriage                RequestKind = "MARRIAGE"
	KindFuneral                 RequestKind = "FUNERAL"
	KindOtherSacrament          RequestKind = "OTHER_SACRAMENT"
	KindBaptismCertificate      RequestKind = "BAPTISM_CERTIFICATE"
	KindConfirmationCertificate RequestKind = "CONFIRMATION_CERTIFICATE"
	KindMarriageCertificate     RequestKind = "MARRIAGE_CERTIFICATE"
	KindDeathCertificate        RequestKind = "DEATH_CERTIFICATE"
	KindOtherCertificate        RequestKind = "OTHER_CERTIFICATE"
)

// SacramentTypeFromService maps a free-text service name ("Baptismal
// Certificate", "Funeral Mass", ...) to a sacrament type. This is the only
// place service names are interpreted.
func SacramentTypeFromService(serviceType string) (SacramentType, bool) {
	normalized := strings.ToLower(serviceType)
	switch {
	case strings.Contains(normalized, "baptism"):
		return SacramentBaptism, true
	case strings.Contains(normalized, "confirmation"):
		return SacramentConfirmation, true
	case strings.Contains(normalized, "marriage"):
		return SacramentMarriage, true
	case strings.Contains(normalized, "funeral"), strings.Contains(normalized, "burial"), strings.Contains(normalized, "death"):
		return SacramentFuneral, true
	}
	return "", false
}

// ClassifyRequest derives the request kind.
func ClassifyRequest(category RequestCategory, serviceType string) RequestKind {
	sacrament, ok := SacramentTypeFromService(serviceType)
	if category == CategoryCertificate {
		if !ok {
			return KindOtherCertificate
		}
		switch sacrament {
		case SacramentBaptism:
			return KindBaptismCertificate
		case SacramentConfirmation:
			return KindConfirmationCertificate
		case SacramentMarriage:
			return KindMarriageCertificate
		default:
			return KindDeathCertificate
		}
	}
	if !ok {
		return KindOtherSacrament
	}
	switch sacrament {
	case SacramentBaptism:
		return KindBaptism
	case SacramentConfirmation:
		return KindConfirmation
	case SacramentMarriage:
		return KindMarriage
	default:
		return KindFuneral
	}
}

// SacramentType returns the sacrament a kind refers to, if any.
func (k RequestKind) SacramentType() (SacramentType, bool) {
	switch k {
	case KindBaptism, KindBaptismCertificate:
		return SacramentBaptism, true
	case KindConfirmation, KindConfirmationCertificate:
		return SacramentConfirmation, true
	case KindMarriage, KindMarriageCertificate:
		return SacramentMarriage, true
	case KindFuneral, KindDeathCertificate:
		return SacramentFuneral, true
	}
	return "", false
}

func (k RequestKind) IsCertificate() bool {
	switch k {
	case KindBaptismCertificate, KindConfirmationCertificate, KindMarriageCertificate,
		KindDeathCertificate, KindOtherCertificate:
		return true
	}
	return false
}

// DetailsOptional reports whether the kind replaces the free-text details
// with structured fields.
func (k RequestKind) DetailsOptional() bool {
	switch k {
	case KindFuneral, KindMarriage, KindMarriageCertificate, KindDeathCertificate:
		return true
	}
	return false
}

// CertificateKind is the certificate request kind for a sacrament type.
func CertificateKind(t SacramentType) RequestKind {
	switch t {
	case SacramentBaptism:
		return KindBaptismCertificate
	case SacramentConfirmation:
		return KindConfirmationCertificate
	case SacramentMarriage:
		return KindMarriageCertificate
	case SacramentFuneral:
		return KindDeathCertificate
	}
	return KindOtherCertificate
}
