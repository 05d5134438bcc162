// Package access holds the capability checks applied to already-loaded
// records. Nothing here performs I/O.
package access

import "github.com/homecare/nursing-api/internal/core/domain"

// IsParticipant reports whether p is the client or the nurse of sr.
func IsParticipant(sr *domain.ServiceRequest, p domain.Principal) bool {
	if sr == nil || p.ID == "" {
		return false
	}
	return p.ID == sr.ClientID || p.ID == sr.NurseID
}

// IsAssignedNurse reports whether p is the nurse sr was created for.
func IsAssignedNurse(sr *domain.ServiceRequest, p domain.Principal) bool {
	return sr != nil && p.Role == domain.RoleNurse && p.ID != "" && p.ID == sr.NurseID
}

// IsOwningClient reports whether p is the client that created sr.
func IsOwningClient(sr *domain.ServiceRequest, p domain.Principal) bool {
	return sr != nil && p.Role == domain.RoleClient && p.ID != "" && p.ID == sr.ClientID
}

// OwnsPatients reports whether every id in patientIDs is among owned, the
// ids of the patients whose owner is p. An empty patientIDs is never owned.
func OwnsPatients(p domain.Principal, patientIDs []string, owned []string) bool {
	if p.ID == "" || len(patientIDs) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		set[id] = struct{}{}
	}
	for _, id := range patientIDs {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// CanRead returns domain.ErrForbidden when p may not see sr. Existing
// records are never reported as missing to a non-participant.
func CanRead(sr *domain.ServiceRequest, p domain.Principal) error {
	if !IsParticipant(sr, p) {
		return domain.ErrForbidden
	}
	return nil
}
