package diag

// Error codes follow the teacher's phase-prefixed taxonomy (PAR###,
// MOD###, LDR### in ailang's internal/errors/codes.go), one block per
// pipeline phase, so a code alone identifies which stage raised it.
const (
	// Lexer (§4.1): unknown bytes, invalid integer literals, and
	// unterminated string literals.
	LEX001Unknown           = "LEX001"
	LEX002InvalidInteger    = "LEX002"
	LEX003UnterminatedString = "LEX003"

	// Parser (§4.2).
	PAR001UnexpectedToken  = "PAR001"
	PAR002MissingDelimiter = "PAR002"
	PAR003ExpectedDecl     = "PAR003"

	// Dependency discovery (§4.3).
	IMP001FileNotFound      = "IMP001"
	IMP002ImportPathInvalid = "IMP002"

	// Project resolver (§4.4).
	RSV001DuplicateName          = "RSV001"
	RSV002ImportPathNotFound     = "RSV002"
	RSV003ImportSymbolNotFound   = "RSV003"
	RSV004ImportSymbolConflict   = "RSV004"
	RSV005RecursiveType          = "RSV005"
	RSV006StructSelfRef          = "RSV006"
	RSV007FunctionAlreadyDefined = "RSV007"

	// Module analyzer (§4.5.9's taxonomy).
	SEM001TypeMismatch            = "SEM001"
	SEM002ConstantExprExpected    = "SEM002"
	SEM003VariableDefined         = "SEM003"
	SEM004VariableUndefined       = "SEM004"
	SEM005FunctionUndefined       = "SEM005"
	SEM006StructDefined           = "SEM006"
	SEM007StructUndefined         = "SEM007"
	SEM008FieldNotFound           = "SEM008"
	SEM009NotAStruct              = "SEM009"
	SEM010NotAStructPointer       = "SEM010"
	SEM011ApplyOpOnType           = "SEM011"
	SEM012AssignToConst           = "SEM012"
	SEM013NotALValue              = "SEM013"
	SEM014AddressOfRight          = "SEM014"
	SEM015ExpectInitialVal        = "SEM015"
	SEM016ArrayError              = "SEM016"
	SEM017ArgumentCountMismatch   = "SEM017"
	SEM018ReturnTypeMismatch      = "SEM018"
	SEM019BreakOutsideLoop        = "SEM019"
	SEM020ContinueOutsideLoop     = "SEM020"
	SEM021StructInitFieldCount    = "SEM021"
	SEM022ConstOverflow           = "SEM022"
	SEM023DivisionByZero          = "SEM023"

	// LLVM backend (§4.6 "Failure taxonomy").
	CDG001Missing            = "CDG001"
	CDG002LlvmBuild          = "CDG002"
	CDG003LlvmWrite          = "CDG003"
	CDG004LlvmVerification   = "CDG004"
	CDG005TypeMismatch       = "CDG005"
	CDG006Unsupported        = "CDG006"
	CDG007NotImplemented     = "CDG007"
	CDG008UndefinedVar       = "CDG008"
	CDG009UndefinedFunc      = "CDG009"
	CDG010InvalidRoot        = "CDG010"
	CDG011TargetMachine      = "CDG011"
)
