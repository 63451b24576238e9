package models

// Role is a semantic column meaning, independent of the literal header text.
type Role string

// Known roles.
const (
	RoleProduct Role = "product"
	RolePrice   Role = "price"
	RoleWeight  Role = "weight"
)

// Roles lists every role in resolution order.
var Roles = []Role{RoleProduct, RolePrice, RoleWeight}

// Column identifies a header by position and label. Index is -1 when unresolved.
type Column struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// Resolved reports whether the column points at a real header.
func (c Column) Resolved() bool {
	return c.Index >= 0
}

// Unresolved is the zero mapping for a role with no matching header.
var Unresolved = Column{Index: -1}

// RoleMapping is the result of resolving one table's headers.
type RoleMapping struct {
	Product Column `json:"product"`
	Price   Column `json:"price"`
	Weight  Column `json:"weight"`
}

// Get returns the column mapped to role.
func (m RoleMapping) Get(role Role) Column {
	switch role {
	case RoleProduct:
		return m.Product
	case RolePrice:
		return m.Price
	case RoleWeight:
		return m.Weight
	default:
		return Unresolved
	}
}

// Missing returns the roles without a matching header, in resolution order.
func (m RoleMapping) Missing() []Role {
	var missing []Role

	for _, role := range Roles {
		if !m.Get(role).Resolved() {
			missing = append(missing, role)
		}
	}

	return missing
}

// Complete reports whether every role resolved.
func (m RoleMapping) Complete() bool {
	return len(m.Missing()) == 0
}

// UnifiedRecord is one normalized price-list row.
type UnifiedRecord struct {
	SourceFile  string  `json:"sourceFile"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Weight      float64 `json:"weight"`
	UnitPrice   float64 `json:"unitPrice"`
}
