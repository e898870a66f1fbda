package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus is the terminal business outcome of a boost payment claim.
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentPending   PaymentStatus = "pending"
	PaymentRejected  PaymentStatus = "rejected"
)

// Operator identifies the mobile-money network the payer claims to have used.
// Collected for reporting only; it carries no scoring weight.
type Operator string

const (
	OperatorMpesa Operator = "mpesa"
	OperatorEmola Operator = "emola"
	OperatorMkesh Operator = "mkesh"
)

// PaymentClaim is the unverified submission from the client: the user asserts
// a mobile-money payment was made and pastes whatever evidence they have.
type PaymentClaim struct {
	AdID           string   `json:"adId" binding:"required"`
	PlanID         string   `json:"planId" binding:"required"`
	Operator       Operator `json:"operator"`
	PhoneNumber    string   `json:"phoneNumber"`
	ReferenceCode  string   `json:"referenceCode"`
	MessageContent string   `json:"messageContent"`
}

// Payment is the persisted record of a claim and its evaluation. Records are
// immutable once written except for the manual-review transition out of pending.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdID           primitive.ObjectID `bson:"adId" json:"adId"`
	Amount         int                `bson:"amount" json:"amount"`
	PlanID         string             `bson:"planId" json:"planId"`
	ClientNumber   string             `bson:"clientNumber" json:"clientNumber"`
	Operator       Operator           `bson:"operator" json:"operator"`
	ReferenceCode  string             `bson:"referenceCode" json:"referenceCode"`
	MessageContent string             `bson:"messageContent,omitempty" json:"messageContent,omitempty"`
	Status         PaymentStatus      `bson:"status" json:"status"`
	RiskScore      int                `bson:"riskScore" json:"riskScore"`
	RiskReasons    []string           `bson:"riskReasons" json:"riskReasons"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PaymentResult is what the UI shows the user after a submission.
type PaymentResult struct {
	Status  PaymentStatus `json:"status"`
	Message string        `json:"message"`
}
