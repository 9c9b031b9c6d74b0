package httpapi

import (
	"net/http"
	"time"

	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/metrics"
)

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) createRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	role, err := a.commands.CreateRole(r.Context(), voting.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, role)
}

func (a *API) updateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	role, err := a.commands.UpdateRole(r.Context(), domain.RoleID(r.PathValue("id")), voting.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, role)
}

func (a *API) deleteRole(w http.ResponseWriter, r *http.Request) {
	a.deleted(w, r, a.commands.DeleteRole(r.Context(), domain.RoleID(r.PathValue("id"))))
}

type userRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	RoleID  string `json:"role_id"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.commands.CreateUser(r.Context(), voting.UserInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		RoleID:  domain.RoleID(req.RoleID),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, user)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.commands.UpdateUser(r.Context(), domain.UserID(r.PathValue("id")), voting.UserInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		RoleID:  domain.RoleID(req.RoleID),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, user)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	a.deleted(w, r, a.commands.DeleteUser(r.Context(), domain.UserID(r.PathValue("id"))))
}

type nominationRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedDate *time.Time `json:"created_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (a *API) createNomination(w http.ResponseWriter, r *http.Request) {
	var req nominationRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	in := voting.NominationInput{Name: req.Name, Description: req.Description, EndDate: req.EndDate}
	if req.CreatedDate != nil {
		in.CreatedDate = *req.CreatedDate
	}
	n, err := a.commands.CreateNomination(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, n)
}

// nominationUpdateRequest não aceita created_date; a data de criação é fixa.
type nominationUpdateRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EndDate     *time.Time `json:"end_date"`
}

func (a *API) updateNomination(w http.ResponseWriter, r *http.Request) {
	var req nominationUpdateRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.commands.UpdateNomination(r.Context(), domain.NominationID(r.PathValue("id")), voting.NominationInput{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, n)
}

func (a *API) closeNomination(w http.ResponseWriter, r *http.Request) {
	n, err := a.commands.CloseNomination(r.Context(), domain.NominationID(r.PathValue("id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, n)
}

func (a *API) reopenNomination(w http.ResponseWriter, r *http.Request) {
	n, err := a.commands.ReopenNomination(r.Context(), domain.NominationID(r.PathValue("id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, n)
}

func (a *API) deleteNomination(w http.ResponseWriter, r *http.Request) {
	a.deleted(w, r, a.commands.DeleteNomination(r.Context(), domain.NominationID(r.PathValue("id"))))
}

type nomineeRequest struct {
	NominationID string `json:"nomination_id"`
	UserID       string `json:"user_id"`
	ProjectName  string `json:"project_name"`
	Description  string `json:"description"`
	Contact      string `json:"contact"`
	Attachment   string `json:"attachment"`
}

func (a *API) createNominee(w http.ResponseWriter, r *http.Request) {
	var req nomineeRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.commands.CreateNominee(r.Context(), voting.NomineeInput{
		NominationID: domain.NominationID(req.NominationID),
		UserID:       domain.UserID(req.UserID),
		ProjectName:  req.ProjectName,
		Description:  req.Description,
		Contact:      req.Contact,
		Attachment:   req.Attachment,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, n)
}

type nomineeUpdateRequest struct {
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Attachment  string `json:"attachment"`
}

func (a *API) updateNominee(w http.ResponseWriter, r *http.Request) {
	var req nomineeUpdateRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.commands.UpdateNominee(r.Context(), domain.NomineeID(r.PathValue("id")), voting.NomineeUpdate{
		ProjectName: req.ProjectName,
		Description: req.Description,
		Contact:     req.Contact,
		Attachment:  req.Attachment,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, n)
}

func (a *API) deleteNominee(w http.ResponseWriter, r *http.Request) {
	a.deleted(w, r, a.commands.DeleteNominee(r.Context(), domain.NomineeID(r.PathValue("id"))))
}

type voteRequest struct {
	UserID    string `json:"user_id"`
	NomineeID string `json:"nominee_id"`
	Choice    string `json:"choice"`
}

func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decode(r, &req); err != nil {
		metrics.ObserveVoteRequest(voteStatus(err))
		a.fail(w, r, err)
		return
	}
	choice, err := domain.ParseChoice(req.Choice)
	if err != nil {
		metrics.ObserveVoteRequest(voteStatus(err))
		a.fail(w, r, err)
		return
	}

	v, err := a.commands.CastVote(r.Context(), domain.UserID(req.UserID), domain.NomineeID(req.NomineeID), choice)
	metrics.ObserveVoteRequest(voteStatus(err))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Info("voto registrado", "vote", v.ID, "user", v.UserID, "nominee", v.NomineeID, "choice", v.Choice)
	responderJSON(w, http.StatusCreated, v)
}

type juryRequest struct {
	UserID string `json:"user_id"`
	Bio    string `json:"bio"`
	Photo  string `json:"photo"`
}

func (a *API) createJury(w http.ResponseWriter, r *http.Request) {
	var req juryRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	j, err := a.commands.CreateJury(r.Context(), voting.JuryInput{UserID: domain.UserID(req.UserID), Bio: req.Bio, Photo: req.Photo})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, j)
}

type juryUpdateRequest struct {
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

func (a *API) updateJury(w http.ResponseWriter, r *http.Request) {
	var req juryUpdateRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	j, err := a.commands.UpdateJury(r.Context(), domain.JuryID(r.PathValue("id")), req.Bio, req.Photo)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, j)
}

type evaluationRequest struct {
	JuryID    string `json:"jury_id"`
	NomineeID string `json:"nominee_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

func (a *API) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	e, err := a.commands.Evaluate(r.Context(), voting.EvaluationInput{
		JuryID:    domain.JuryID(req.JuryID),
		NomineeID: domain.NomineeID(req.NomineeID),
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, e)
}

type subscriptionRequest struct {
	UserID       string `json:"user_id"`
	NominationID string `json:"nomination_id"`
	Notes        string `json:"notes"`
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	s, err := a.commands.Subscribe(r.Context(), voting.SubscriptionInput{
		UserID:       domain.UserID(req.UserID),
		NominationID: domain.NominationID(req.NominationID),
		Notes:        req.Notes,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, s)
}

type examRequest struct {
	Name      string   `json:"name"`
	ExamDate  string   `json:"exam_date"`
	TaskImage string   `json:"task_image"`
	IsPublic  bool     `json:"is_public"`
	UserIDs   []string `json:"user_ids"`
}

func (a *API) createExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	in := voting.ExamInput{Name: req.Name, TaskImage: req.TaskImage, IsPublic: req.IsPublic}
	if req.ExamDate != "" {
		d, err := time.Parse(time.DateOnly, req.ExamDate)
		if err != nil {
			a.fail(w, r, errPayload)
			return
		}
		in.ExamDate = d
	}
	for _, id := range req.UserIDs {
		in.UserIDs = append(in.UserIDs, domain.UserID(id))
	}

	e, err := a.commands.CreateExam(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, e)
}

func (a *API) deleted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
