package entity

import "time"

// Batch statuses
const (
	BatchStatusRunning        = "RUNNING"
	BatchStatusDone           = "DONE"
	BatchStatusDoneWithErrors = "DONE_WITH_ERRORS"
)

// Credential statuses
const (
	CredentialStatusDone   = "DONE"
	CredentialStatusFailed = "FAILED"
)

// Employee staff member eligible for a printed credential
type Employee struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeNo string     `json:"employee_no" gorm:"size:50;not null;uniqueIndex"`
	FullName   string     `json:"full_name" gorm:"size:128;not null"`
	Position   string     `json:"position" gorm:"size:128"`
	Department string     `json:"department" gorm:"size:128"`
	PlantID    *string    `json:"plant_id" gorm:"type:uuid;index"`
	PhotoPath  string     `json:"photo_path" gorm:"size:512"`
	Status     string     `json:"status" gorm:"size:20;not null;default:active"`
	HiredAt    *time.Time `json:"hired_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
}

func (Employee) TableName() string {
	return "mtto_employees"
}

// CredentialBatch one generation run over a set of employees
type CredentialBatch struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Status      string     `json:"status" gorm:"size:30;not null"`
	Total       int        `json:"total" gorm:"default:0"`
	Succeeded   int        `json:"succeeded" gorm:"default:0"`
	Failed      int        `json:"failed" gorm:"default:0"`
	CreatedBy   string     `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Credentials []Credential `json:"credentials,omitempty" gorm:"foreignKey:BatchID"`
}

func (CredentialBatch) TableName() string {
	return "mtto_credential_batches"
}

// Credential one rendered credential inside a batch
type Credential struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BatchID    string    `json:"batch_id" gorm:"type:uuid;not null;index"`
	EmployeeID string    `json:"employee_id" gorm:"type:uuid;not null;index"`
	Status     string    `json:"status" gorm:"size:20;not null"`
	FilePath   string    `json:"file_path" gorm:"size:512"`
	Error      string    `json:"error,omitempty" gorm:"size:512"`
	Attempts   int       `json:"attempts" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (Credential) TableName() string {
	return "mtto_credentials"
}
