package s3types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationDescriptor_RoleARN(t *testing.T) {
	d := MigrationDescriptor{DestAccount: "123456789012"}
	assert.Equal(t, "arn:aws:iam::123456789012:role/S3MigrationRole", d.RoleARN())
}

func TestObjectOwnership_IsValid(t *testing.T) {
	tests := []struct {
		value ObjectOwnership
		want  bool
	}{
		{ObjectOwnershipBucketOwnerEnforced, true},
		{ObjectOwnershipBucketOwnerPreferred, true},
		{ObjectOwnershipObjectWriter, true},
		{"", false},
		{"bucketownerenforced", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.IsValid())
		})
	}
}

func TestOwnershipResult_Enforced(t *testing.T) {
	tests := []struct {
		name   string
		result *OwnershipResult
		want   bool
	}{
		{"nil", nil, false},
		{"not found", &OwnershipResult{Status: OwnershipNotFound}, false},
		{"found without controls", &OwnershipResult{Status: OwnershipFound}, false},
		{"empty rules", &OwnershipResult{Status: OwnershipFound, Controls: &OwnershipControls{}}, false},
		{
			name: "enforced first",
			result: &OwnershipResult{Status: OwnershipFound, Controls: &OwnershipControls{Rules: []OwnershipRule{
				{ObjectOwnership: ObjectOwnershipBucketOwnerEnforced},
			}}},
			want: true,
		},
		{
			name: "enforced second only",
			result: &OwnershipResult{Status: OwnershipFound, Controls: &OwnershipControls{Rules: []OwnershipRule{
				{ObjectOwnership: ObjectOwnershipObjectWriter},
				{ObjectOwnership: ObjectOwnershipBucketOwnerEnforced},
			}}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Enforced())
		})
	}
}

func TestOwnershipStatus_String(t *testing.T) {
	assert.Equal(t, "found", OwnershipFound.String())
	assert.Equal(t, "not-found", OwnershipNotFound.String())
	assert.Equal(t, "OwnershipStatus(7)", OwnershipStatus(7).String())
}

func TestAccessControlPolicy_OwnerID(t *testing.T) {
	var nilPolicy *AccessControlPolicy
	assert.Empty(t, nilPolicy.OwnerID())
	assert.Empty(t, (&AccessControlPolicy{}).OwnerID())
	assert.Equal(t, "A", (&AccessControlPolicy{Owner: &Owner{ID: "A"}}).OwnerID())
}
