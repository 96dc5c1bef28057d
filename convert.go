package ownership

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

func ownershipControlsFromAWS(in *types.OwnershipControls) *s3types.OwnershipControls {
	out := &s3types.OwnershipControls{}
	if in == nil {
		return out
	}
	for _, rule := range in.Rules {
		out.Rules = append(out.Rules, s3types.OwnershipRule{
			ObjectOwnership: s3types.ObjectOwnership(rule.ObjectOwnership),
		})
	}
	return out
}

func ownershipControlsToAWS(in *s3types.OwnershipControls) *types.OwnershipControls {
	out := &types.OwnershipControls{
		Rules: make([]types.OwnershipControlsRule, 0, len(in.Rules)),
	}
	for _, rule := range in.Rules {
		out.Rules = append(out.Rules, types.OwnershipControlsRule{
			ObjectOwnership: types.ObjectOwnership(rule.ObjectOwnership),
		})
	}
	return out
}

func policyFromAWS(out *s3.GetBucketAclOutput) *s3types.AccessControlPolicy {
	policy := &s3types.AccessControlPolicy{}
	if out.Owner != nil {
		policy.Owner = &s3types.Owner{
			ID:          aws.ToString(out.Owner.ID),
			DisplayName: aws.ToString(out.Owner.DisplayName),
		}
	}
	if out.Grants == nil {
		return policy
	}
	policy.Grants = make([]s3types.Grant, 0, len(out.Grants))
	for _, grant := range out.Grants {
		g := s3types.Grant{Permission: s3types.Permission(grant.Permission)}
		if grant.Grantee != nil {
			g.Grantee = s3types.Grantee{
				Type:         s3types.GranteeType(grant.Grantee.Type),
				ID:           aws.ToString(grant.Grantee.ID),
				DisplayName:  aws.ToString(grant.Grantee.DisplayName),
				EmailAddress: aws.ToString(grant.Grantee.EmailAddress),
				URI:          aws.ToString(grant.Grantee.URI),
			}
		}
		policy.Grants = append(policy.Grants, g)
	}
	return policy
}

func policyToAWS(in *s3types.AccessControlPolicy) *types.AccessControlPolicy {
	out := &types.AccessControlPolicy{
		Grants: make([]types.Grant, 0, len(in.Grants)),
	}
	if in.Owner != nil {
		out.Owner = &types.Owner{
			ID:          optionalString(in.Owner.ID),
			DisplayName: optionalString(in.Owner.DisplayName),
		}
	}
	for _, grant := range in.Grants {
		out.Grants = append(out.Grants, types.Grant{
			Permission: types.Permission(grant.Permission),
			Grantee: &types.Grantee{
				Type:         types.Type(grant.Grantee.Type),
				ID:           optionalString(grant.Grantee.ID),
				DisplayName:  optionalString(grant.Grantee.DisplayName),
				EmailAddress: optionalString(grant.Grantee.EmailAddress),
				URI:          optionalString(grant.Grantee.URI),
			},
		})
	}
	return out
}

// optionalString keeps empty fields out of the request body.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
