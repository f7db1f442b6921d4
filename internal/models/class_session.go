package models

// ClassSession is the class_sessions row. Registrations holds a JSON array.
type ClassSession struct {
	ClassSessionID string `db:"class_session_id"`
	SessionDate    string `db:"session_date"`
	SessionTime    string `db:"session_time"`
	Registrations  []byte `db:"registrations"`
	AuditFields
}
