package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"animal-registry/internal/router"
)

func TestHTTP_EndToEnd_TransferAccepted(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	newOwnerID := "user-2"

	// 1) Owner registra su animal
	animalID := createAnimal(t, ts.URL, ownerID, map[string]any{
		"nfc_id": "nfc-001",
		"name":   "Milo",
		"race":   "mixed",
		"gender": "male",
	})

	// 2) Todavía no hay transferencia pendiente
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/transfers/pending", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 before request, got %d", st)
		}
	}

	// 3) Owner pide transferir a user-2
	transferID := requestTransfer(t, ts.URL, ownerID, animalID, newOwnerID)

	// 4) El perfil del animal muestra la pendiente
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/transfers/pending", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pending, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID != transferID || resp.Status != "pending" {
			t.Fatalf("wrong pending row: %s", string(body))
		}
	}

	// 5) user-2 la ve entrante y su badge la cuenta
	{
		st, body := doReq(t, ts.URL, "GET", "/me/transfers/incoming", newOwnerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 incoming, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 incoming, got %d", len(items))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/me/notifications/transfers", newOwnerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 badge, got %d body=%s", st, string(body))
		}
		var resp struct {
			HasPending   bool `json:"has_pending"`
			PendingCount int  `json:"pending_count"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.HasPending || resp.PendingCount != 1 {
			t.Fatalf("expected badge 1, got %s", string(body))
		}
	}

	// 6) user-2 acepta
	if !resolveTransfer(t, ts.URL, newOwnerID, transferID, "accept") {
		t.Fatalf("expected accept to succeed")
	}

	// 7) La propiedad cambió
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID, newOwnerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get animal, got %d body=%s", st, string(body))
		}
		var resp struct {
			OwnerUserID string `json:"owner_user_id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.OwnerUserID != newOwnerID {
			t.Fatalf("expected owner %s, got %s", newOwnerID, resp.OwnerUserID)
		}
	}

	// 8) Badge en cero y sin pendiente en el perfil
	{
		st, body := doReq(t, ts.URL, "GET", "/me/notifications/transfers", newOwnerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 badge, got %d", st)
		}
		var resp struct {
			PendingCount int `json:"pending_count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.PendingCount != 0 {
			t.Fatalf("expected badge 0 after accept, got %d", resp.PendingCount)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/transfers/pending", newOwnerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after accept, got %d", st)
		}
	}

	// 9) Reintento sobre la fila ya resuelta: 200 con success=false
	if resolveTransfer(t, ts.URL, newOwnerID, transferID, "accept") {
		t.Fatalf("repeat accept must report success=false")
	}

	// 10) El historial del dueño anterior conserva la fila accepted
	{
		st, body := doReq(t, ts.URL, "GET", "/me/transfers/outgoing", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 outgoing, got %d", st)
		}
		var items []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Status != "accepted" {
			t.Fatalf("expected accepted in history, got %s", string(body))
		}
	}
}

func TestHTTP_Transfer_RejectKeepsOwner(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, "owner-1", map[string]any{
		"nfc_id": "nfc-001", "name": "Milo", "gender": "male",
	})
	transferID := requestTransfer(t, ts.URL, "owner-1", animalID, "user-2")

	if !resolveTransfer(t, ts.URL, "user-2", transferID, "reject") {
		t.Fatalf("expected reject to succeed")
	}

	st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID, "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var resp struct {
		OwnerUserID string `json:"owner_user_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.OwnerUserID != "owner-1" {
		t.Fatalf("reject must keep owner-1, got %s", resp.OwnerUserID)
	}
}

func TestHTTP_Transfer_CancelByOwner(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, "owner-1", map[string]any{
		"nfc_id": "nfc-001", "name": "Milo", "gender": "male",
	})
	transferID := requestTransfer(t, ts.URL, "owner-1", animalID, "user-2")

	// user-2 no puede cancelar
	{
		st, _ := doReq(t, ts.URL, "POST", "/transfers/"+transferID+"/cancel", "user-2", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 cancel by new owner, got %d", st)
		}
	}
	if !resolveTransfer(t, ts.URL, "owner-1", transferID, "cancel") {
		t.Fatalf("expected cancel to succeed")
	}

	// Cancelada, el animal queda libre para una nueva solicitud
	_ = requestTransfer(t, ts.URL, "owner-1", animalID, "user-3")
}

func TestHTTP_Transfer_PolicyErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, "owner-1", map[string]any{
		"nfc_id": "nfc-001", "name": "Milo", "gender": "male",
	})

	// self transfer => 422
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/transfers", "owner-1", map[string]any{
			"new_owner_id": "owner-1",
		})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 self transfer, got %d", st)
		}
	}

	// no dueño pidiendo => 403
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/transfers", "user-9", map[string]any{
			"new_owner_id": "user-2",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 request by non-owner, got %d", st)
		}
	}

	transferID := requestTransfer(t, ts.URL, "owner-1", animalID, "user-2")

	// segunda pendiente => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/transfers", "owner-1", map[string]any{
			"new_owner_id": "user-3",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 second pending, got %d", st)
		}
	}

	// accept por el dueño actual o un tercero => 403
	for _, actor := range []string{"owner-1", "user-9"} {
		st, _ := doReq(t, ts.URL, "POST", "/transfers/"+transferID+"/accept", actor, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 accept by %s, got %d", actor, st)
		}
	}

	// sin auth => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/transfers/"+transferID+"/accept", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}

	// transfer inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/transfers/missing/accept", "user-2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown transfer, got %d", st)
		}
	}
}

func TestHTTP_LostAndFound(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, "owner-1", map[string]any{
		"nfc_id": "nfc-001", "name": "Milo", "gender": "male",
	})

	// marcar perdido con notas
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/lost", "owner-1", map[string]any{
			"notes": "seen near the park",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark lost, got %d body=%s", st, string(body))
		}
		var resp struct {
			IsLost    bool    `json:"is_lost"`
			LostSince *string `json:"lost_since"`
			LostNotes string  `json:"lost_notes"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsLost || resp.LostSince == nil || resp.LostNotes != "seen near the park" {
			t.Fatalf("wrong lost state: %s", string(body))
		}
	}

	// la vista pública lo lista sin auth
	{
		st, body := doReq(t, ts.URL, "GET", "/lost-animals", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 public lost list, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 lost animal, got %d", len(items))
		}
	}

	// no dueño no puede marcar encontrado
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/found", "user-2", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 found by non-owner, got %d", st)
		}
	}

	// encontrado: limpia todo el estado perdido
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/found", "owner-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark found, got %d", st)
		}
		var resp struct {
			IsLost    bool    `json:"is_lost"`
			LostSince *string `json:"lost_since"`
			LostNotes string  `json:"lost_notes"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.IsLost || resp.LostSince != nil || resp.LostNotes != "" {
			t.Fatalf("lost state not cleared: %s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/lost-animals", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty lost list, got %d", len(items))
		}
	}
}

func TestHTTP_NfcLookup_IsPublic(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, "owner-1", map[string]any{
		"nfc_id": "nfc-001", "name": "Milo", "gender": "male",
	})

	// sin auth: quien encontró al animal escanea el collar
	st, body := doReq(t, ts.URL, "GET", "/animals/nfc/nfc-001", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 nfc lookup, got %d body=%s", st, string(body))
	}
	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID != animalID {
		t.Fatalf("wrong animal for nfc tag: %s", string(body))
	}

	// tag duplicado => 409
	st, _ = doReq(t, ts.URL, "POST", "/animals", "owner-2", map[string]any{
		"nfc_id": "nfc-001", "name": "Luna", "gender": "female",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate nfc, got %d", st)
	}
}

func TestHTTP_Profile_DevEmailClaimWins(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// El email de los claims (en dev, X-Debug-User-Email) manda sobre el
	// del body, igual que con un token real.
	req, err := http.NewRequest("PUT", ts.URL+"/me/profile", bytes.NewReader([]byte(
		`{"email":"spoofed@example.com","full_name":"Ana Pérez","cin":"AB123456"}`,
	)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-User-ID", "user-1")
	req.Header.Set("X-Debug-User-Email", "Ana@Example.com")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 upsert profile, got %d body=%s", res.StatusCode, string(body))
	}

	var resp struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Email != "ana@example.com" {
		t.Fatalf("expected claim email to win (lowercased), got %q", resp.Email)
	}

	// Y el perfil guardado alimenta la búsqueda de destinatario por CIN.
	st, body2 := doReq(t, ts.URL, "GET", "/users/search?cin=AB123456", "user-2", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 search by cin, got %d body=%s", st, string(body2))
	}
	var found struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body2, &found)
	if found.ID != "user-1" {
		t.Fatalf("expected user-1 by cin, got %s", string(body2))
	}
}

func TestHTTP_OCR_WithoutBackendIs503(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/ocr/id-card", "owner-1", map[string]any{
		"image_base64": "aGVsbG8=",
	})
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without ocr backend, got %d", st)
	}
}

func createAnimal(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.ID
}

func requestTransfer(t *testing.T, baseURL, ownerID, animalID, newOwnerID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals/"+animalID+"/transfers", ownerID, map[string]any{
		"new_owner_id": newOwnerID,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 request transfer, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("request transfer: missing id body=%s", string(body))
	}
	return resp.ID
}

func resolveTransfer(t *testing.T, baseURL, actorID, transferID, action string) bool {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/transfers/"+transferID+"/"+action, actorID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 %s, got %d body=%s", action, st, string(body))
	}

	var resp struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.Success
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
