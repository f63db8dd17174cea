package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_PayloadRoundTrip(t *testing.T) {
	r := &Request{Type: RequestTypeAppointment}
	require.NoError(t, r.SetData(map[string]string{"specialty": "x"}))
	assert.Equal(t, map[string]string{"specialty": "x"}, r.Payload())
}

func TestRequest_PayloadCorruptBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"Empty", ""},
		{"Truncated JSON", `{"specialty":`},
		{"Wrong shape", `[1,2,3]`},
		{"Null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Request{Data: tt.blob, ProcessedData: tt.blob}
			assert.Equal(t, map[string]string{}, r.Payload())
			assert.Equal(t, map[string]string{}, r.ProcessedPayload())
		})
	}
}

func TestRequest_MarshalJSONDecodesPayloads(t *testing.T) {
	r := Request{ID: 7, Type: RequestTypeConsultation, Status: RequestStatusPending}
	require.NoError(t, r.SetData(map[string]string{"consultationType": "general", "description": "headache"}))

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok, "data should be an object, not a string blob")
	assert.Equal(t, "general", data["consultationType"])
	assert.Equal(t, map[string]any{}, decoded["processed_data"])
}

func TestRequiredFields_CoverAllTypes(t *testing.T) {
	for _, typ := range []RequestType{
		RequestTypeAppointment,
		RequestTypeConsultation,
		RequestTypeMedicalRequest,
		RequestTypeMedicalExcuse,
		RequestTypeReviewCertificate,
		RequestTypeCompanionReport,
	} {
		assert.True(t, ValidRequestType(typ), "type %s should be valid", typ)
		assert.NotEmpty(t, RequiredFields[typ])
	}
	assert.False(t, ValidRequestType("passport_renewal"))
}

func TestRequestStatus_Terminality(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.False(t, RequestStatusInProgress.IsTerminal())
	assert.True(t, RequestStatusCompleted.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
	assert.False(t, ValidRequestStatus("archived"))
}

func TestAccount_AdminSentinel(t *testing.T) {
	admin := &Account{NationalID: AdminNationalID}
	citizen := &Account{NationalID: "1234567890"}
	assert.True(t, admin.IsAdmin())
	assert.False(t, citizen.IsAdmin())
}

func TestAttachment_SizeFormatted(t *testing.T) {
	assert.Equal(t, "512 B", (&Attachment{Size: 512}).SizeFormatted())
	assert.Equal(t, "2.0 KB", (&Attachment{Size: 2048}).SizeFormatted())
	assert.Equal(t, "1.5 MB", (&Attachment{Size: 3 * 1024 * 1024 / 2}).SizeFormatted())
}
