// Package ofx reads OFX/QFX bank and credit card statements into ledger drafts.
package ofx

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const maxNoteLength = 120

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Statement is the importable content of one OFX file.
type Statement struct {
	Accounts []string
	Drafts   []model.TransactionDraft
	Skipped  int
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: common.LoggerOrDefault(logger)}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file. Debits become expenses in the
// uncategorized bucket and credits become income; zero amounts are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			stmt.addAccount(string(s.BankAcctFrom.AcctID))
			p.convertList(stmt, string(s.BankAcctFrom.AcctID), s.BankTranList)
		}
	}

	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			stmt.addAccount(string(s.CCAcctFrom.AcctID))
			p.convertList(stmt, string(s.CCAcctFrom.AcctID), s.BankTranList)
		}
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(stmt.Drafts),
		"skipped", stmt.Skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

func (s *Statement) addAccount(id string) {
	if id != "" && !slices.Contains(s.Accounts, id) {
		s.Accounts = append(s.Accounts, id)
	}
}

func (p *Parser) convertList(stmt *Statement, account string, list *ofxgo.TransactionList) {
	if list == nil {
		return
	}
	for _, ofxTx := range list.Transactions {
		draft, ok := p.convertTransaction(account, ofxTx)
		if !ok {
			stmt.Skipped++
			p.logger.Warn("Skipping OFX transaction without amount", "fitid", string(ofxTx.FiTID))
			continue
		}
		stmt.Drafts = append(stmt.Drafts, draft)
	}
}

// convertTransaction maps an OFX transaction onto a draft. OFX uses
// negative amounts for debits.
func (p *Parser) convertTransaction(account string, ofxTx ofxgo.Transaction) (model.TransactionDraft, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return model.TransactionDraft{}, false
	}

	draft := model.TransactionDraft{
		Date:     ofxTx.DtPosted.Time,
		Amount:   amount.Abs(),
		Type:     model.TypeExpense,
		Category: model.UncategorizedID,
		Note:     truncate(p.extractMerchantName(ofxTx), maxNoteLength),
	}
	if amount.IsPositive() {
		draft.Type = model.TypeIncome
		draft.Category = model.DefaultIncomeCategoryID
	}
	if ofxTx.CheckNum != "" && !strings.Contains(draft.Note, string(ofxTx.CheckNum)) {
		draft.Note = strings.TrimSpace(draft.Note + " #" + string(ofxTx.CheckNum))
	}
	draft.ImportHash = importHash(account, ofxTx, amount)
	return draft, true
}

// importHash identifies a statement line across files. The bank's FITID is
// unique per account; lines without one fall back to date, amount and name.
func importHash(account string, ofxTx ofxgo.Transaction, amount decimal.Decimal) string {
	data := fmt.Sprintf("%s:fitid:%s", account, ofxTx.FiTID)
	if ofxTx.FiTID == "" {
		data = fmt.Sprintf("%s:%s:%s:%s",
			account,
			ofxTx.DtPosted.Format("2006-01-02"),
			amount.StringFixed(2),
			ofxTx.Name)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " posting dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}
	return slices.Contains(generic, strings.ToUpper(name))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
