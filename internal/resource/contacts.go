package resource

import "github.com/mesh-intelligence/taskdesk/pkg/types"

// Contacts is the schema of the contacts collection. Deletes are reflected
// locally: contacts are owned by one user and not edited concurrently.
type Contacts struct{}

// NewContacts returns the contacts schema.
func NewContacts() *Contacts { return &Contacts{} }

var contactFields = []string{types.FieldName, types.FieldEmail}

// Collection returns "contacts".
func (c *Contacts) Collection() string { return types.CollectionContacts }

// Sort lists contacts newest first.
func (c *Contacts) Sort() string { return types.SortCreatedDesc }

// DeletePolicy removes a deleted contact from the held list without a reload.
func (c *Contacts) DeletePolicy() DeletePolicy { return DeleteLocal }

// FieldNames returns the form fields in display order. The slice is a copy.
func (c *Contacts) FieldNames() []string { return append([]string(nil), contactFields...) }

// Headers returns the table column titles matching Columns.
func (c *Contacts) Headers() []string { return []string{"NAME", "EMAIL"} }

// Extract requires a name and an email. Address syntax is left to the store.
func (c *Contacts) Extract(f Fields) (types.Payload, error) {
	name, err := requireText(f, types.FieldName)
	if err != nil {
		return nil, err
	}
	email, err := requireText(f, types.FieldEmail)
	if err != nil {
		return nil, err
	}
	return types.Payload{
		types.FieldName:  name,
		types.FieldEmail: email,
	}, nil
}

func (c *Contacts) Defaults(r types.Record) Fields {
	return Fields{
		types.FieldName:  r.String(types.FieldName),
		types.FieldEmail: r.String(types.FieldEmail),
	}
}

func (c *Contacts) Columns(r types.Record) []string {
	return []string{r.String(types.FieldName), r.String(types.FieldEmail)}
}
