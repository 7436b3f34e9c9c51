package contact

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
)

// Status of a contact message. Only StatusNew is written today.
type Status string

const StatusNew Status = "new"

// Message is a note sent through the public contact form.
type Message struct {
	common.BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null;index" json:"email"`
	Subject string `gorm:"type:varchar(255)" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Status  Status `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
}

// TableName specifies the table name for the Message model.
func (Message) TableName() string {
	return "contact_messages"
}

// CreateMessageRequest is the body of POST /contact-messages.
type CreateMessageRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}
