package hudu

import (
	"encoding/json"
	"strings"
	"time"
)

// Company is a Hudu company record.
type Company struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Nickname        string    `json:"nickname,omitempty"`
	CompanyType     string    `json:"company_type,omitempty"`
	AddressLine1    string    `json:"address_line_1,omitempty"`
	AddressLine2    string    `json:"address_line_2,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	Zip             string    `json:"zip,omitempty"`
	CountryName     string    `json:"country_name,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	FaxNumber       string    `json:"fax_number,omitempty"`
	Website         string    `json:"website,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	IDNumber        string    `json:"id_number,omitempty"`
	ParentCompanyID int       `json:"parent_company_id,omitempty"`
	Slug            string    `json:"slug,omitempty"`
	FullURL         string    `json:"full_url,omitempty"`
	Archived        bool      `json:"archived,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Asset is a Hudu asset record.
type Asset struct {
	ID                  int              `json:"id"`
	CompanyID           int              `json:"company_id"`
	AssetLayoutID       int              `json:"asset_layout_id"`
	Name                string           `json:"name"`
	Slug                string           `json:"slug,omitempty"`
	PrimarySerial       string           `json:"primary_serial,omitempty"`
	PrimaryMail         string           `json:"primary_mail,omitempty"`
	PrimaryModel        string           `json:"primary_model,omitempty"`
	PrimaryManufacturer string           `json:"primary_manufacturer,omitempty"`
	URL                 string           `json:"url,omitempty"`
	Archived            bool             `json:"archived,omitempty"`
	Fields              []AssetField     `json:"fields,omitempty"`
	Cards               []IntegratorCard `json:"cards,omitempty"`
	CreatedAt           time.Time        `json:"created_at,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at,omitempty"`
}

// AssetField is one custom field value on an asset. Value keeps whatever
// type the layout defines (string, number, bool, list).
type AssetField struct {
	ID                 int    `json:"id,omitempty"`
	AssetLayoutFieldID int    `json:"asset_layout_field_id,omitempty"`
	Label              string `json:"label,omitempty"`
	Value              any    `json:"value,omitempty"`
	Position           int    `json:"position,omitempty"`
}

// UnmarshalJSON tolerates field values that arrive as JSON encoded inside a
// string, which Hudu produces for list-type layout fields.
func (f *AssetField) UnmarshalJSON(data []byte) error {
	type alias AssetField
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*f = AssetField(a)

	if s, ok := f.Value.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			var nested any
			if err := json.Unmarshal([]byte(trimmed), &nested); err == nil {
				f.Value = nested
			}
		}
	}

	return nil
}

// IntegratorCard is a synced integration panel attached to an asset.
type IntegratorCard struct {
	ID             int             `json:"id"`
	IntegratorID   int             `json:"integrator_id,omitempty"`
	IntegratorName string          `json:"integrator_name,omitempty"`
	SyncType       string          `json:"sync_type,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}

// AssetLayout describes the schema of an asset type.
type AssetLayout struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Icon             string             `json:"icon,omitempty"`
	Color            string             `json:"color,omitempty"`
	IconColor        string             `json:"icon_color,omitempty"`
	IncludePasswords bool               `json:"include_passwords,omitempty"`
	IncludePhotos    bool               `json:"include_photos,omitempty"`
	IncludeComments  bool               `json:"include_comments,omitempty"`
	IncludeFiles     bool               `json:"include_files,omitempty"`
	Active           bool               `json:"active,omitempty"`
	Fields           []AssetLayoutField `json:"fields,omitempty"`
	CreatedAt        time.Time          `json:"created_at,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at,omitempty"`
}

// AssetLayoutField is one field definition inside a layout.
type AssetLayoutField struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	FieldType  string `json:"field_type,omitempty"`
	Required   bool   `json:"required,omitempty"`
	ShowInList bool   `json:"show_in_list,omitempty"`
	Position   int    `json:"position,omitempty"`
	Hint       string `json:"hint,omitempty"`
	Options    string `json:"options,omitempty"`
	LinkableID int    `json:"linkable_id,omitempty"`
	Expiration bool   `json:"expiration,omitempty"`
}

// Article is a knowledge-base article, optionally scoped to a company.
type Article struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Content       string    `json:"content,omitempty"`
	CompanyID     int       `json:"company_id,omitempty"`
	FolderID      int       `json:"folder_id,omitempty"`
	Draft         bool      `json:"draft,omitempty"`
	EnableSharing bool      `json:"enable_sharing,omitempty"`
	Slug          string    `json:"slug,omitempty"`
	URL           string    `json:"url,omitempty"`
	Archived      bool      `json:"archived,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// AssetPassword is a stored credential, optionally attached to an asset.
type AssetPassword struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Username         string    `json:"username,omitempty"`
	Password         string    `json:"password,omitempty"`
	OTPSecret        string    `json:"otp_secret,omitempty"`
	URL              string    `json:"url,omitempty"`
	Notes            string    `json:"description,omitempty"`
	CompanyID        int       `json:"company_id,omitempty"`
	PasswordType     string    `json:"password_type,omitempty"`
	PasswordableType string    `json:"passwordable_type,omitempty"`
	PasswordableID   int       `json:"passwordable_id,omitempty"`
	Archived         bool      `json:"archived,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// Relation links two records (assets, companies, articles, passwords).
type Relation struct {
	ID           int    `json:"id"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	IsInverse    bool   `json:"is_inverse,omitempty"`
	FromableType string `json:"fromable_type,omitempty"`
	FromableID   int    `json:"fromable_id,omitempty"`
	FromableURL  string `json:"fromable_url,omitempty"`
	ToableType   string `json:"toable_type,omitempty"`
	ToableID     int    `json:"toable_id,omitempty"`
	ToableURL    string `json:"toable_url,omitempty"`
}

// Upload is a file attached to a record.
type Upload struct {
	ID             int       `json:"id"`
	Name           string    `json:"name,omitempty"`
	Ext            string    `json:"ext,omitempty"`
	MimeType       string    `json:"mime_type,omitempty"`
	Size           int       `json:"size,omitempty"`
	URL            string    `json:"url,omitempty"`
	UploadableType string    `json:"uploadable_type,omitempty"`
	UploadableID   int       `json:"uploadable_id,omitempty"`
	ArchivedAt     time.Time `json:"archived_at,omitempty"`
}
