package backup

import (
	"time"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/domain/request"
)

// SnapshotVersion is the current backup format version. Importers refuse
// snapshots written with a newer version.
const SnapshotVersion = 1

// Snapshot is the full-database backup document: every entity, entity by
// entity, with IDs preserved so foreign-key relationships survive a
// round-trip. Optional fields may be absent on import.
type Snapshot struct {
	Version           int                        `json:"version"`
	ExportedAt        time.Time                  `json:"exported_at"`
	Members           []snapshotMember           `json:"members"`
	Beneficiaries     []member.Beneficiary       `json:"beneficiaries"`
	Activities        []activity.Activity        `json:"activities"`
	Enrollments       []enrollment.Enrollment    `json:"enrollments"`
	Requests          []snapshotRequest          `json:"membership_requests"`
	RequestDependents []request.RequestDependent `json:"request_dependents"`
}

// snapshotMember and snapshotRequest widen the domain types with the fields
// their JSON tags hide from API responses; a backup must carry them.
type snapshotMember struct {
	member.Member
	PasswordHash string `json:"password_hash"`
}

type snapshotRequest struct {
	request.MembershipRequest
	AccessToken       string  `json:"access_token"`
	SubmittedPassword *string `json:"submitted_password,omitempty"`
}

func toSnapshotMembers(members []member.Member) []snapshotMember {
	out := make([]snapshotMember, 0, len(members))
	for _, m := range members {
		out = append(out, snapshotMember{Member: m, PasswordHash: m.PasswordHash})
	}
	return out
}

func fromSnapshotMembers(rows []snapshotMember) []member.Member {
	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		m := row.Member
		m.PasswordHash = row.PasswordHash
		out = append(out, m)
	}
	return out
}

func toSnapshotRequests(requests []request.MembershipRequest) []snapshotRequest {
	out := make([]snapshotRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, snapshotRequest{
			MembershipRequest: r,
			AccessToken:       r.AccessToken,
			SubmittedPassword: r.SubmittedPassword,
		})
	}
	return out
}

func fromSnapshotRequests(rows []snapshotRequest) []request.MembershipRequest {
	out := make([]request.MembershipRequest, 0, len(rows))
	for _, row := range rows {
		r := row.MembershipRequest
		r.AccessToken = row.AccessToken
		r.SubmittedPassword = row.SubmittedPassword
		out = append(out, r)
	}
	return out
}
