package mimic

import "github.com/AndreyAkinshin/mimic/internal/logging"

// logger carries diagnostics (dispatch mode, rejected environment values).
// Set MIMIC_LOG=debug to see them.
var logger = logging.New()
