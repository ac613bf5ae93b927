package sqlinline

const QIncrementCampaignTotals = `--sql 675f45cd-467b-442a-a09b-c08e15c68ecd
update campaigns
set raised_amount = raised_amount + $2::text::numeric,
    donor_count = donor_count + 1,
    updated_at = now()
where id = $1::uuid
returning raised_amount::text;
`

const QMarkMilestonesAchieved = `--sql 7dce4698-016d-4673-bc7a-5b7d3fdc5418
update campaign_milestones
set achieved = true, achieved_at = now()
where campaign_id = $1::uuid
  and not achieved
  and amount <= $2::text::numeric;
`

const QCampaignBalance = `--sql 54a6ffd7-d518-4466-8c5b-ffb14e5fd8f7
select c.raised_amount::text, c.donor_count, coalesce(sum(d.amount), 0)::text, count(d.id)
from campaigns c
left join donations d on d.campaign_id = c.id and d.status = 'completed'
where c.id = $1::uuid
group by c.id;
`

const QLockCampaignAggregates = `--sql 1ce7daba-4876-4692-b5b7-02a04c50b126
select id::text
from campaigns
where id = $1::uuid
for update;
`

const QRecomputeCampaignAggregates = `--sql 37909bab-f172-40c3-8f24-e5e19b35a567
update campaigns c
set raised_amount = t.raised, donor_count = t.donations, updated_at = now()
from (
    select coalesce(sum(amount), 0) as raised, count(*) as donations
    from donations
    where campaign_id = $1::uuid and status = 'completed'
) t
where c.id = $1::uuid
returning c.raised_amount::text, c.donor_count;
`
