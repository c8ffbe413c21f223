package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrNotClassCreator ErrCode = "NOT_CLASS_CREATOR"
	ErrNotClassMember  ErrCode = "NOT_CLASS_MEMBER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Membership ────────────────────────────────────────────────────
	ErrClassFull        ErrCode = "CLASS_FULL"
	ErrAlreadyRequested ErrCode = "ALREADY_REQUESTED"
	ErrMemberNotPending ErrCode = "MEMBER_NOT_PENDING"
	ErrRoleLocked       ErrCode = "ROLE_LOCKED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email atau kata sandi salah."
	case ErrEmailTaken:
		return "Email sudah terdaftar."
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrSessionInvalidated:
		return "Sesi Anda telah berakhir. Silakan login kembali."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrNotClassCreator:
		return "Hanya pembuat kelas yang dapat melakukan tindakan ini."
	case ErrNotClassMember:
		return "Anda bukan anggota kelas ini."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Data sudah ada"

	// ─── Membership ────────────────────────────────────────────────────
	case ErrClassFull:
		return "Kelas sudah mencapai batas maksimal anggota"
	case ErrAlreadyRequested:
		return "Anda sudah mengirim permintaan ke kelas ini. Menunggu persetujuan admin."
	case ErrMemberNotPending:
		return "Status anggota sudah tidak dapat diubah."
	case ErrRoleLocked:
		return "Peran akun tidak dapat diubah."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
