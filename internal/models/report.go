package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report is a clinical record. DoctorID is the owner and never changes
// after creation; only the owner may update or delete the report.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientName   string             `bson:"patientName" json:"patientName"`
	Age           int                `bson:"age" json:"age"`
	HospitalName  string             `bson:"hospitalName" json:"hospitalName"`
	Weight        string             `bson:"weight" json:"weight"`
	Height        string             `bson:"height" json:"height"`
	BloodGroup    string             `bson:"bloodGroup" json:"bloodGroup"`
	Genotype      string             `bson:"genotype" json:"genotype"`
	BloodPressure string             `bson:"bloodPressure" json:"bloodPressure"`
	HIVStatus     string             `bson:"hivStatus" json:"hivStatus"`
	Hepatitis     string             `bson:"hepatitis" json:"hepatitis"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
}
