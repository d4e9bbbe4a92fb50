package models

import "time"

// Prediction defines the structure for one stored inference run.
// Artifact paths are relative to the configured output directory and
// are resolved to public URLs by the handlers.
type Prediction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PatientID    uint      `json:"patient_id" gorm:"index;not null"` // Foreign key to Patient.ID
	ModelName    string    `json:"model_name" gorm:"default:ceph_landmark_model"`
	ModelVersion string    `json:"model_version"`
	Landmarks    Landmarks `json:"landmarks" gorm:"type:json"`
	ImagePath    string    `json:"image_path"`  // Annotated cephalometric image
	ExcelPath    string    `json:"excel_path"`  // Landmark spreadsheet
	ReportPath   string    `json:"report_path"` // PDF report
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
