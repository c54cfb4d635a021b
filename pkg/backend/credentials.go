package backend

// Credentials selects exactly one way of reaching the two storage tiers.
//
// Either Account or Delegated must be set, never both and never neither.
// Validation happens once, at the store boundary; code past that point
// dispatches on which variant is non-nil and nothing else.
type Credentials struct {
	// Account holds long-lived account credentials. The store will
	// idempotently create both containers when this variant is used.
	Account *AccountCredentials

	// Delegated holds short-lived vended container URLs. Containers are
	// assumed pre-provisioned by the credential issuer; no creation is
	// attempted.
	Delegated *DelegatedCredentials
}

// AccountCredentials are direct backend account credentials.
type AccountCredentials struct {
	// Account is the account or access key identifier.
	Account string

	// AccessKey is the account secret.
	AccessKey string

	// ContainerPrefix names the container pair: the backend derives
	// "<prefix>-private" and "<prefix>-public" from it.
	ContainerPrefix string

	// Endpoint is a custom endpoint URL for S3-compatible stores.
	// Leave empty for AWS S3.
	Endpoint string

	// Region is the backend region. Optional; backend defaults apply.
	Region string
}

// DelegatedCredentials are short-lived, scope-limited container URLs issued
// by a credential vending service.
type DelegatedCredentials struct {
	// PrivateURL addresses the private container.
	PrivateURL string

	// PublicURL addresses the public container.
	PublicURL string
}

// Validate checks the tagged-union invariant and required fields.
//
// Errors name the offending field and whether the violation is a missing
// required field or a mutual-exclusion conflict, so callers can surface them
// directly as bad-argument failures.
func (c Credentials) Validate() error {
	if c.Account != nil && c.Delegated != nil {
		return &CredentialError{
			Field:  "Account/Delegated",
			Reason: ReasonMutualExclusion,
		}
	}
	if c.Account == nil && c.Delegated == nil {
		return &CredentialError{
			Field:  "Account/Delegated",
			Reason: ReasonMissingRequired,
		}
	}

	if a := c.Account; a != nil {
		switch {
		case a.Account == "":
			return &CredentialError{Field: "Account.Account", Reason: ReasonMissingRequired}
		case a.AccessKey == "":
			return &CredentialError{Field: "Account.AccessKey", Reason: ReasonMissingRequired}
		case a.ContainerPrefix == "":
			return &CredentialError{Field: "Account.ContainerPrefix", Reason: ReasonMissingRequired}
		}
		return nil
	}

	d := c.Delegated
	switch {
	case d.PrivateURL == "":
		return &CredentialError{Field: "Delegated.PrivateURL", Reason: ReasonMissingRequired}
	case d.PublicURL == "":
		return &CredentialError{Field: "Delegated.PublicURL", Reason: ReasonMissingRequired}
	}
	return nil
}

// Validation failure reasons.
const (
	ReasonMissingRequired = "missing required field"
	ReasonMutualExclusion = "mutually exclusive fields both set"
)

// CredentialError reports a credential schema violation.
type CredentialError struct {
	// Field names the offending field(s).
	Field string

	// Reason is ReasonMissingRequired or ReasonMutualExclusion.
	Reason string
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	return "credentials: " + e.Field + ": " + e.Reason
}
