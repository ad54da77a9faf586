package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRequest(t *testing.T) {
	tests := []struct {
		category    RequestCategory
		serviceType string
		want        RequestKind
	}{
		{CategorySacrament, "Baptism", KindBaptism},
		{CategorySacrament, "Confirmation", KindConfirmation},
		{CategorySacrament, "Holy Marriage", KindMarriage},
		{CategorySacrament, "Funeral Mass", KindFuneral},
		{CategorySacrament, "Burial Rites", KindFuneral},
		{CategorySacrament, "House Blessing", KindOtherSacrament},
		{CategoryCertificate, "Baptismal Certificate", KindBaptismCertificate},
		{CategoryCertificate, "CONFIRMATION CERTIFICATE", KindConfirmationCertificate},
		{CategoryCertificate, "Marriage Contract", KindMarriageCertificate},
		{CategoryCertificate, "Death Certificate", KindDeathCertificate},
		{CategoryCertificate, "Good Moral Certificate", KindOtherCertificate},
	}
	for _, tt := range tests {
		t.Run(tt.serviceType, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRequest(tt.category, tt.serviceType))
		})
	}
}

func TestKindProperties(t *testing.T) {
	st, ok := KindDeathCertificate.SacramentType()
	assert.True(t, ok)
	assert.Equal(t, SacramentFuneral, st)
	_, ok = KindOtherSacrament.SacramentType()
	assert.False(t, ok)

	assert.True(t, KindOtherCertificate.IsCertificate())
	assert.False(t, KindBaptism.IsCertificate())

	assert.True(t, KindMarriage.DetailsOptional())
	assert.False(t, KindBaptismCertificate.DetailsOptional())

	assert.Equal(t, KindMarriageCertificate, CertificateKind(SacramentMarriage))
	assert.Equal(t, KindOtherCertificate, CertificateKind("ORDINATION"))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusCompleted))
	assert.True(t, StatusApproved.CanTransition(StatusScheduled))
	assert.True(t, StatusScheduled.CanTransition(StatusScheduled))
	assert.False(t, StatusScheduled.CanTransition(StatusApproved))
	assert.False(t, StatusScheduled.CanTransition(StatusPending))
	assert.False(t, StatusCompleted.CanTransition(StatusCompleted))
	assert.False(t, StatusRejected.CanTransition(StatusPending))
	assert.False(t, StatusPending.CanTransition("ARCHIVED"))

	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusScheduled.IsTerminal())
}

func TestSmallHelpers(t *testing.T) {
	assert.Nil(t, Str(""))
	assert.Equal(t, "x", Deref(Str("x")))
	assert.Equal(t, "", Deref(nil))

	assert.True(t, DeliveryCourier.Valid())
	assert.False(t, DeliveryMethod("FAX").Valid())
	assert.True(t, SacramentFuneral.Valid())
	assert.False(t, SacramentType("").Valid())
}
