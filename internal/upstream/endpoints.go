package upstream

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// Every list endpoint returns nil slices as empty: callers never see a nil
// collection for a successful call.

// MyRequests fetches the homeowner's layout requests.
func (c *Client) MyRequests(ctx context.Context, sess Session) ([]models.LayoutRequest, error) {
	var resp struct {
		Envelope
		Requests []models.LayoutRequest `json:"requests"`
	}
	if err := c.get(ctx, sess, "homeowner/get_my_requests.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Requests), nil
}

// ContractorRequests fetches requests routed to contractors.
func (c *Client) ContractorRequests(ctx context.Context, sess Session) ([]models.LayoutRequest, error) {
	var resp struct {
		Envelope
		Requests []models.LayoutRequest `json:"requests"`
	}
	if err := c.get(ctx, sess, "homeowner/get_contractor_requests.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Requests), nil
}

// ReceivedDesigns fetches architect designs sent to the homeowner.
func (c *Client) ReceivedDesigns(ctx context.Context, sess Session) ([]models.Design, error) {
	var resp struct {
		Envelope
		Designs []models.Design `json:"designs"`
	}
	if err := c.get(ctx, sess, "homeowner/get_received_designs.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Designs), nil
}

// Estimates fetches contractor estimates for the homeowner.
func (c *Client) Estimates(ctx context.Context, sess Session) ([]models.Estimate, error) {
	q := url.Values{"homeowner_id": {strconv.FormatInt(sess.HomeownerID, 10)}}
	var resp struct {
		Envelope
		Estimates []models.Estimate `json:"estimates"`
	}
	if err := c.get(ctx, sess, "homeowner/get_estimates.php", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Estimates), nil
}

// LayoutLibrary fetches the prebuilt layout catalog.
func (c *Client) LayoutLibrary(ctx context.Context, sess Session) ([]models.Layout, error) {
	var resp struct {
		Envelope
		Layouts []models.Layout `json:"layouts"`
	}
	if err := c.get(ctx, sess, "homeowner/get_layout_library.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Layouts), nil
}

// MyProjects fetches the homeowner's running projects.
func (c *Client) MyProjects(ctx context.Context, sess Session) ([]models.Project, error) {
	var resp struct {
		Envelope
		Projects []models.Project `json:"projects"`
	}
	if err := c.get(ctx, sess, "homeowner/get_my_projects.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Projects), nil
}

// Architects fetches the architect directory.
func (c *Client) Architects(ctx context.Context, sess Session) ([]models.Architect, error) {
	var resp struct {
		Envelope
		Architects []models.Architect `json:"architects"`
	}
	if err := c.get(ctx, sess, "homeowner/get_architects.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Architects), nil
}

// Contractors fetches the contractor directory.
func (c *Client) Contractors(ctx context.Context, sess Session) ([]models.Contractor, error) {
	var resp struct {
		Envelope
		Contractors []models.Contractor `json:"contractors"`
	}
	if err := c.get(ctx, sess, "homeowner/get_contractors.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Contractors), nil
}

// PaymentRequests fetches contractor payment requests. The payload nests the
// list under data.
func (c *Client) PaymentRequests(ctx context.Context, sess Session) ([]models.PaymentRequest, error) {
	var resp struct {
		Envelope
		Data struct {
			PaymentRequests []models.PaymentRequest `json:"payment_requests"`
		} `json:"data"`
	}
	if err := c.get(ctx, sess, "homeowner/get_payment_requests.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Data.PaymentRequests), nil
}

// ProgressUpdates fetches construction progress for a project along with the
// project summary.
func (c *Client) ProgressUpdates(ctx context.Context, sess Session, projectID int64) ([]models.ProgressUpdate, *models.ProjectSummary, error) {
	q := url.Values{"project_id": {strconv.FormatInt(projectID, 10)}}
	var resp struct {
		Envelope
		Data struct {
			ProgressUpdates []models.ProgressUpdate `json:"progress_updates"`
			ProjectSummary  *models.ProjectSummary  `json:"project_summary"`
		} `json:"data"`
	}
	if err := c.get(ctx, sess, "homeowner/get_progress_updates.php", q, &resp); err != nil {
		return nil, nil, err
	}
	return nonNil(resp.Data.ProgressUpdates), resp.Data.ProjectSummary, nil
}

// SubmitRequest posts a completed layout request and returns its new id.
func (c *Client) SubmitRequest(ctx context.Context, sess Session, payload map[string]interface{}) (int64, error) {
	var resp struct {
		Envelope
		RequestID models.FlexInt `json:"request_id"`
	}
	if err := c.postJSON(ctx, sess, "homeowner/submit_request.php", payload, &resp); err != nil {
		return 0, err
	}
	return resp.RequestID.Int64(), nil
}

// AssignArchitects routes a submitted request to the chosen architects.
func (c *Client) AssignArchitects(ctx context.Context, sess Session, requestID int64, architectIDs []int64) error {
	payload := map[string]interface{}{
		"layout_request_id": requestID,
		"architect_ids":     architectIDs,
	}
	return c.postJSON(ctx, sess, "homeowner/assign_architect.php", payload, nil)
}

// DeleteRequest soft-deletes a layout request.
func (c *Client) DeleteRequest(ctx context.Context, sess Session, requestID int64) error {
	return c.postJSON(ctx, sess, "homeowner/delete_request.php", map[string]interface{}{"request_id": requestID}, nil)
}

// DeleteDesign removes a received design.
func (c *Client) DeleteDesign(ctx context.Context, sess Session, designID int64) error {
	return c.postJSON(ctx, sess, "homeowner/delete_design.php", map[string]interface{}{"design_id": designID}, nil)
}

// DeleteEstimate removes an estimate.
func (c *Client) DeleteEstimate(ctx context.Context, sess Session, estimateID int64) error {
	return c.postJSON(ctx, sess, "homeowner/delete_estimate.php", map[string]interface{}{"estimate_id": estimateID}, nil)
}

// DeleteHousePlan removes a house plan.
func (c *Client) DeleteHousePlan(ctx context.Context, sess Session, planID int64) error {
	return c.postJSON(ctx, sess, "homeowner/delete_house_plan.php", map[string]interface{}{"house_plan_id": planID}, nil)
}

// RespondToEstimate records the homeowner's decision on an estimate. Action
// is accept, reject or changes; message carries the optional note.
func (c *Client) RespondToEstimate(ctx context.Context, sess Session, estimateID int64, action, message string) error {
	payload := map[string]interface{}{
		"estimate_id": estimateID,
		"action":      action,
		"message":     message,
	}
	return c.postJSON(ctx, sess, "homeowner/respond_to_estimate.php", payload, nil)
}

// StartConstruction converts an accepted estimate into a running project.
func (c *Client) StartConstruction(ctx context.Context, sess Session, estimateID int64) error {
	return c.postJSON(ctx, sess, "homeowner/start_construction.php", map[string]interface{}{"estimate_id": estimateID}, nil)
}

// SendEstimateMessage posts a message to the estimate's contractor.
func (c *Client) SendEstimateMessage(ctx context.Context, sess Session, estimateID int64, message string) error {
	payload := map[string]interface{}{
		"estimate_id": estimateID,
		"message":     message,
	}
	return c.postJSON(ctx, sess, "homeowner/send_estimate_message.php", payload, nil)
}

// RespondPaymentRequest approves or rejects a contractor payment request.
func (c *Client) RespondPaymentRequest(ctx context.Context, sess Session, requestID int64, response, notes string, approvedAmount float64) error {
	payload := map[string]interface{}{
		"request_id":      requestID,
		"response":        response,
		"homeowner_notes": notes,
		"approved_amount": approvedAmount,
	}
	return c.postJSON(ctx, sess, "homeowner/respond_payment_request.php", payload, nil)
}

// ReceiptFile is one file attached to a manual payment receipt.
type ReceiptFile struct {
	Name    string
	Content io.Reader
}

// UploadPaymentReceipt posts a manual payment receipt with its files.
func (c *Client) UploadPaymentReceipt(ctx context.Context, sess Session, upload models.ReceiptUpload, files []ReceiptFile) error {
	return c.postMultipart(ctx, sess, "homeowner/upload_payment_receipt.php", func(w *multipart.Writer) error {
		_ = w.WriteField("payment_id", strconv.FormatInt(upload.PaymentID, 10))
		_ = w.WriteField("transaction_reference", upload.TransactionReference)
		_ = w.WriteField("payment_date", upload.PaymentDate)
		_ = w.WriteField("payment_method", upload.PaymentMethod)
		_ = w.WriteField("notes", upload.Notes)
		for _, f := range files {
			part, err := w.CreateFormFile("receipt_files[]", f.Name)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}

// UpdateDesignSelection shortlists or finalizes a design.
func (c *Client) UpdateDesignSelection(ctx context.Context, sess Session, designID int64, status string) error {
	payload := map[string]interface{}{
		"design_id": designID,
		"status":    status,
	}
	return c.postJSON(ctx, sess, "homeowner/update_design_selection.php", payload, nil)
}

// SendToContractor forwards a finalized design to a contractor for estimation.
func (c *Client) SendToContractor(ctx context.Context, sess Session, designID, contractorID int64) error {
	payload := map[string]interface{}{
		"design_id":     designID,
		"contractor_id": contractorID,
	}
	return c.postJSON(ctx, sess, "homeowner/send_to_contractor.php", payload, nil)
}

// SendHousePlanToContractor forwards a house plan to a contractor.
func (c *Client) SendHousePlanToContractor(ctx context.Context, sess Session, planID, contractorID int64) error {
	payload := map[string]interface{}{
		"house_plan_id": planID,
		"contractor_id": contractorID,
	}
	return c.postJSON(ctx, sess, "homeowner/send_house_plan_to_contractor.php", payload, nil)
}

// InitiatePayment starts an unlock payment of the given kind. The endpoint
// and extra fields vary per kind; callers pass them prebuilt.
func (c *Client) InitiatePayment(ctx context.Context, sess Session, endpoint string, payload map[string]interface{}) (models.CheckoutDescriptor, error) {
	var resp struct {
		Envelope
		RazorpayKeyID   string          `json:"razorpay_key_id"`
		Amount          models.FlexInt  `json:"amount"`
		Currency        string          `json:"currency"`
		RazorpayOrderID string          `json:"razorpay_order_id"`
		PaymentID       json.RawMessage `json:"payment_id"`
		Description     string          `json:"description"`
		DesignTitle     string          `json:"design_title"`
	}
	if err := c.postJSON(ctx, sess, endpoint, payload, &resp); err != nil {
		return models.CheckoutDescriptor{}, err
	}
	currency := resp.Currency
	if currency == "" {
		currency = "INR"
	}
	return models.CheckoutDescriptor{
		PaymentID:   rawString(resp.PaymentID),
		OrderID:     resp.RazorpayOrderID,
		KeyID:       resp.RazorpayKeyID,
		AmountPaise: resp.Amount.Int64(),
		Currency:    currency,
		Description: resp.Description,
		DesignTitle: resp.DesignTitle,
	}, nil
}

// VerifyPayment confirms a completed checkout against the backend.
func (c *Client) VerifyPayment(ctx context.Context, sess Session, endpoint string, payload map[string]interface{}) error {
	return c.postJSON(ctx, sess, endpoint, payload, nil)
}

// CreateIssue opens a support ticket.
func (c *Client) CreateIssue(ctx context.Context, sess Session, subject, description, category string) error {
	payload := map[string]interface{}{
		"subject":     subject,
		"description": description,
		"category":    category,
	}
	return c.postJSON(ctx, sess, "support/create_issue.php", payload, nil)
}

// Issues lists the homeowner's support tickets.
func (c *Client) Issues(ctx context.Context, sess Session) ([]models.Issue, error) {
	var resp struct {
		Envelope
		Issues []models.Issue `json:"issues"`
	}
	if err := c.get(ctx, sess, "support/get_issues.php", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Issues), nil
}

// Reviews lists reviews for a target professional.
func (c *Client) Reviews(ctx context.Context, sess Session, targetID int64, targetRole string) ([]models.Review, error) {
	q := url.Values{
		"target_id":   {strconv.FormatInt(targetID, 10)},
		"target_role": {targetRole},
	}
	var resp struct {
		Envelope
		Reviews []models.Review `json:"reviews"`
	}
	if err := c.get(ctx, sess, "reviews/get_reviews.php", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Reviews), nil
}

// PostReview submits a rating for a professional.
func (c *Client) PostReview(ctx context.Context, sess Session, review models.Review) error {
	payload := map[string]interface{}{
		"target_id":   review.TargetID.Int64(),
		"target_role": review.TargetRole,
		"rating":      review.Rating.Int64(),
		"comment":     review.Comment,
	}
	return c.postJSON(ctx, sess, "reviews/post_review.php", payload, nil)
}

// Comments lists the thread on a design or estimate.
func (c *Client) Comments(ctx context.Context, sess Session, kind string, resourceID int64) ([]models.Comment, error) {
	q := url.Values{
		"kind":        {kind},
		"resource_id": {strconv.FormatInt(resourceID, 10)},
	}
	var resp struct {
		Envelope
		Comments []models.Comment `json:"comments"`
	}
	if err := c.get(ctx, sess, "comments/get_comments.php", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Comments), nil
}

// PostComment appends a message to a thread.
func (c *Client) PostComment(ctx context.Context, sess Session, kind string, resourceID int64, body string) error {
	payload := map[string]interface{}{
		"kind":        kind,
		"resource_id": resourceID,
		"body":        body,
	}
	return c.postJSON(ctx, sess, "comments/post_comment.php", payload, nil)
}

// rawString renders a scalar JSON value as its string form; payment ids come
// back as either numbers or strings.
func rawString(raw json.RawMessage) string {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "null" {
		return ""
	}
	return s
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
