package code

var (
	Failed          = NewError(0, lang{en: "Failed", de: "Fehlgeschlagen"})
	Success         = NewSuss(1, lang{en: "Success", de: "Erfolgreich"})
	SuccessCreate   = NewSuss(2, lang{en: "Created successfully", de: "Erfolgreich angelegt"})
	SuccessUpdate   = NewSuss(3, lang{en: "Updated successfully", de: "Erfolgreich geändert"})
	SuccessDelete   = NewSuss(4, lang{en: "Deleted successfully", de: "Erfolgreich gelöscht"})
	SuccessUndelete = NewSuss(5, lang{en: "Restored successfully", de: "Erfolgreich wiederhergestellt"})
	SuccessNoChange = NewSuss(6, lang{en: "Nothing changed", de: "Keine Änderungen"})

	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", de: "Interner Serverfehler"})
	ErrorNotFoundAPI     = NewError(404, lang{en: "API not found", de: "Schnittstelle nicht gefunden"})
	ErrorInvalidParams   = NewError(405, lang{en: "Invalid parameters", de: "Ungültige Parameter"})
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", de: "Zu viele Anfragen"})

	ErrorDBQuery              = NewError(501, lang{en: "Database query failed", de: "Datenbankabfrage fehlgeschlagen"})
	ErrorNotUserAuthToken     = NewError(502, lang{en: "Please log in", de: "Bitte melden Sie sich an"})
	ErrorInvalidUserAuthToken = NewError(503, lang{en: "Session expired, please log in again", de: "Sitzung abgelaufen, bitte erneut anmelden"})
	ErrorWriteQueueBusy       = NewError(504, lang{en: "Server is busy, please try again", de: "Server ausgelastet, bitte erneut versuchen"})

	ErrorUserRegisterIsDisable   = NewError(511, lang{en: "Registration is disabled", de: "Registrierung ist deaktiviert"})
	ErrorUserAlreadyExists       = NewError(512, lang{en: "User already exists", de: "Benutzer existiert bereits"})
	ErrorUserNotFound            = NewError(513, lang{en: "User not found", de: "Benutzer nicht gefunden"})
	ErrorUserLoginPasswordFailed = NewError(514, lang{en: "Wrong username or password", de: "Benutzername oder Passwort falsch"})
	ErrorUserPasswordNotMatch    = NewError(515, lang{en: "Passwords do not match", de: "Passwörter stimmen nicht überein"})
	ErrorUserEmailAlreadyExists  = NewError(516, lang{en: "Email address already registered", de: "E-Mail-Adresse bereits registriert"})
	ErrorUserOldPasswordFailed   = NewError(517, lang{en: "Old password is wrong", de: "Altes Passwort ist falsch"})
	ErrorUserUsernameNotValid    = NewError(518, lang{en: "Username may only contain letters, digits, dots, dashes and underscores", de: "Benutzername darf nur Buchstaben, Ziffern, Punkte, Binde- und Unterstriche enthalten"})
	ErrorTokenGenerate           = NewError(519, lang{en: "Failed to create session", de: "Sitzung konnte nicht erstellt werden"})

	ErrorRecordNotFound    = NewError(521, lang{en: "Entry not found", de: "Eintrag nicht gefunden"})
	ErrorRecordDeleted     = NewError(522, lang{en: "Entry is marked as deleted", de: "Eintrag ist als gelöscht markiert"})
	ErrorRecordNotDeleted  = NewError(523, lang{en: "Entry is not deleted", de: "Eintrag ist nicht gelöscht"})
	ErrorEditTokenInvalid  = NewError(524, lang{en: "The form has expired, please reload it", de: "Das Formular ist abgelaufen, bitte neu laden"})
	ErrorAlreadySubmitted  = NewError(525, lang{en: "The form was already submitted", de: "Das Formular wurde bereits abgeschickt"})
	ErrorAutocompleteField = NewError(526, lang{en: "Autocompletion is not supported for this field", de: "Autovervollständigung für dieses Feld nicht unterstützt"})
	ErrorUnknownList       = NewError(527, lang{en: "Unknown list", de: "Unbekannte Liste"})
	ErrorSortProperty      = NewError(528, lang{en: "Unknown sort property", de: "Unbekanntes Sortierfeld"})
	ErrorDateRange         = NewError(529, lang{en: "The end date must not be before the start date", de: "Das Enddatum darf nicht vor dem Startdatum liegen"})

	ErrorContractNumberExists  = NewError(531, lang{en: "A contract with this number already exists", de: "Ein Vertrag mit dieser Nummer existiert bereits"})
	ErrorContractTypeInvalid   = NewError(532, lang{en: "Unknown contract type", de: "Unbekannter Vertragstyp"})
	ErrorContractStatusInvalid = NewError(533, lang{en: "Unknown contract status", de: "Unbekannter Vertragsstatus"})

	ErrorMailTypeInvalid = NewError(541, lang{en: "Unknown mail type", de: "Unbekannte Postart"})

	ErrorVisitorTypeInvalid      = NewError(551, lang{en: "Unknown visitor type", de: "Unbekannte Besucherart"})
	ErrorContactPersonNotFound   = NewError(552, lang{en: "Contact person not found", de: "Ansprechpartner nicht gefunden"})
	ErrorVisitorEntryInvalidTime = NewError(553, lang{en: "Departure must be after arrival", de: "Abreise muss nach Ankunft liegen"})
	ErrorVisitorEntryNotFound    = NewError(554, lang{en: "Visit entry does not belong to this visitor", de: "Besuchseintrag gehört nicht zu diesem Besucher"})
)
