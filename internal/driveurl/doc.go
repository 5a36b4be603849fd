// Package driveurl resolves Google Drive and Google Docs share URLs into
// canonical file references.
//
// The resolver accepts the common share URL shapes (document, spreadsheet,
// presentation, file view, open?id= and uc?id= links) as well as bare file
// identifiers, and reports which document family the URL shape implies.
// Resolution is purely structural; no network access is performed.
package driveurl
